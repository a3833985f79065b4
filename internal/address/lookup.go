// Package address wraps the external address-suggestion provider behind
// a debounced lookup so keystroke-driven callers bound their call volume.
package address

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Suggestion struct {
	FullAddress string      `json:"fullAddress"`
	Coordinates Coordinates `json:"coordinates"`
	Context     string      `json:"context"`
}

// Client is the external suggestion provider.
type Client interface {
	Lookup(ctx context.Context, postcode string) ([]Suggestion, error)
}

const (
	DefaultDebounce = 500 * time.Millisecond
	lookupTimeout   = 5 * time.Second
	minQueryLength  = 5
)

// Debouncer delays lookups until the input has been idle for the debounce
// window. A new input cancels the pending lookup; inputs failing the
// minimum length/format check cancel without scheduling anything.
type Debouncer struct {
	mu       sync.Mutex
	client   Client
	delay    time.Duration
	timer    *time.Timer
	stopped  bool
	onResult func(query string, suggestions []Suggestion, err error)
}

func NewDebouncer(client Client, delay time.Duration, onResult func(string, []Suggestion, error)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		client:   client,
		delay:    delay,
		onResult: onResult,
	}
}

// Input registers a keystroke's worth of query text.
func (d *Debouncer) Input(query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if !ValidQuery(query) {
		return
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(query)
	})
}

func (d *Debouncer) fire(query string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	suggestions, err := d.client.Lookup(ctx, query)
	d.onResult(query, suggestions, err)
}

// Stop cancels any pending lookup. The debouncer cannot be reused.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// ValidQuery is the minimum length/format gate: at least five
// significant characters, starting with a letter, letters and digits
// only (spaces allowed).
func ValidQuery(query string) bool {
	trimmed := strings.ReplaceAll(strings.TrimSpace(query), " ", "")
	if len(trimmed) < minQueryLength {
		return false
	}
	runes := []rune(trimmed)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
