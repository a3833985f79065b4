package payment

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/fjod/go_ordering/internal/money"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// CartState is the slice of the cart store the payment manager reads and
// writes back to.
type CartState interface {
	ItemCount() int
	TotalAmount() float64
	Customer() domain.Customer
	SetPaymentState(intentID string, status domain.IntentStatus)
}

// Manager drives a single checkout's payment lifecycle. At most one
// non-terminal intent exists at a time; repeated CreateIntent calls
// return it instead of opening another.
type Manager struct {
	mu       sync.Mutex
	cart     CartState
	gateway  Gateway
	currency string

	intent  *domain.PaymentIntent
	idemKey string
	group   singleflight.Group
}

func NewManager(cart CartState, gateway Gateway, currency string) *Manager {
	if currency == "" {
		currency = "GBP"
	}
	return &Manager{
		cart:     cart,
		gateway:  gateway,
		currency: currency,
	}
}

// CreateIntent opens a payment attempt for the current cart. Preconditions
// fail with a validation error before the gateway is ever called. If a
// non-terminal intent already exists it is returned as-is; a terminal one
// rotates the idempotency key so the gateway sees a genuinely new attempt.
// Concurrent calls for the same key collapse into one gateway request.
func (m *Manager) CreateIntent(ctx context.Context) (*domain.PaymentIntent, error) {
	m.mu.Lock()

	customer := m.cart.Customer()
	if customer.Email == "" {
		m.mu.Unlock()
		return nil, domain.Categorize(domain.KindValidation, ErrMissingEmail)
	}
	if m.cart.ItemCount() == 0 {
		m.mu.Unlock()
		return nil, domain.Categorize(domain.KindValidation, ErrEmptyCart)
	}
	amountMinor := money.ToMinorUnits(m.cart.TotalAmount())
	if amountMinor <= 0 {
		m.mu.Unlock()
		return nil, domain.Categorize(domain.KindValidation, ErrInvalidAmount)
	}

	if m.intent != nil {
		if !m.intent.Status.IsTerminal() {
			existing := *m.intent
			m.mu.Unlock()
			return &existing, nil
		}
		// The previous attempt finished for good; a fresh key keeps the
		// gateway from deduplicating the new intent against it.
		m.intent = nil
		m.idemKey = ""
	}
	if m.idemKey == "" {
		m.idemKey = uuid.NewString()
	}

	req := CreateIntentRequest{
		AmountMinor:    amountMinor,
		Currency:       m.currency,
		Description:    fmt.Sprintf("order for %s", customer.Email),
		CustomerName:   customer.Name(),
		CustomerEmail:  customer.Email,
		IdempotencyKey: m.idemKey,
	}
	key := m.idemKey
	m.mu.Unlock()

	v, err, _ := m.group.Do(key, func() (any, error) {
		return m.gateway.CreateIntent(ctx, req)
	})
	if err != nil {
		return nil, m.categorized(err)
	}
	result := v.(*IntentResult)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.intent == nil || m.intent.ID != result.IntentID {
		m.intent = &domain.PaymentIntent{
			ID:           result.IntentID,
			ClientSecret: result.ClientSecret,
			AmountMinor:  amountMinor,
			Status:       result.Status,
		}
		m.cart.SetPaymentState(m.intent.ID, m.intent.Status)
	}
	out := *m.intent
	return &out, nil
}

// ConfirmPayment submits the chosen payment method against the active
// intent. A failed confirmation keeps the intent and its client secret so
// the next attempt retries the same intent.
func (m *Manager) ConfirmPayment(ctx context.Context, paymentMethodRef string) (*domain.PaymentIntent, error) {
	m.mu.Lock()
	if m.intent == nil {
		m.mu.Unlock()
		return nil, domain.Categorize(domain.KindValidation, ErrNoActiveIntent)
	}
	if !domain.CanTransitionTo(m.intent.Status, domain.IntentStatusProcessing) {
		status := m.intent.Status
		m.mu.Unlock()
		return nil, domain.Categorize(domain.KindValidation,
			fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, status, domain.IntentStatusProcessing))
	}
	m.setStatus(domain.IntentStatusProcessing)
	m.intent.PaymentMethodRef = paymentMethodRef
	intentID := m.intent.ID
	m.mu.Unlock()

	result, err := m.gateway.ConfirmIntent(ctx, intentID, paymentMethodRef)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// The intent may have been cancelled while the gateway call was
		// in flight. A terminal status wins over the failure.
		if m.intent != nil && domain.CanTransitionTo(m.intent.Status, domain.IntentStatusFailed) {
			m.setStatus(domain.IntentStatusFailed)
		}
		return nil, m.categorized(err)
	}
	switch {
	case result.Status == "":
		m.setStatus(domain.IntentStatusSucceeded)
	case result.Status == m.intent.Status:
		// still processing, nothing to move
	case domain.CanTransitionTo(m.intent.Status, result.Status):
		m.setStatus(result.Status)
	default:
		log.Printf("gateway reported illegal transition %s -> %s for intent %s, keeping local status",
			m.intent.Status, result.Status, m.intent.ID)
	}
	out := *m.intent
	return &out, nil
}

// CancelPayment abandons the active intent. The local state moves first;
// a gateway failure is logged but does not resurrect the intent.
func (m *Manager) CancelPayment(ctx context.Context) error {
	m.mu.Lock()
	if m.intent == nil {
		m.mu.Unlock()
		return domain.Categorize(domain.KindValidation, ErrNoActiveIntent)
	}
	if !domain.CanTransitionTo(m.intent.Status, domain.IntentStatusCancelled) {
		status := m.intent.Status
		m.mu.Unlock()
		return domain.Categorize(domain.KindValidation,
			fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, status, domain.IntentStatusCancelled))
	}
	m.setStatus(domain.IntentStatusCancelled)
	intentID := m.intent.ID
	m.mu.Unlock()

	if err := m.gateway.CancelIntent(ctx, intentID); err != nil {
		log.Printf("gateway cancel for intent %s failed: %v", intentID, err)
	}
	return nil
}

// RefundPayment refunds a succeeded intent.
func (m *Manager) RefundPayment(ctx context.Context) error {
	m.mu.Lock()
	if m.intent == nil {
		m.mu.Unlock()
		return domain.Categorize(domain.KindValidation, ErrNoActiveIntent)
	}
	if !domain.CanTransitionTo(m.intent.Status, domain.IntentStatusRefunded) {
		status := m.intent.Status
		m.mu.Unlock()
		return domain.Categorize(domain.KindValidation,
			fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, status, domain.IntentStatusRefunded))
	}
	intentID := m.intent.ID
	m.mu.Unlock()

	if err := m.gateway.RefundIntent(ctx, intentID); err != nil {
		return m.categorized(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setStatus(domain.IntentStatusRefunded)
	return nil
}

// ReconcileStatus adopts the gateway's authoritative view of the active
// intent, moving the local state only along a legal transition.
func (m *Manager) ReconcileStatus(ctx context.Context) (*domain.PaymentIntent, error) {
	m.mu.Lock()
	if m.intent == nil {
		m.mu.Unlock()
		return nil, domain.Categorize(domain.KindValidation, ErrNoActiveIntent)
	}
	intentID := m.intent.ID
	m.mu.Unlock()

	result, err := m.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, m.categorized(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if result.Status != m.intent.Status && domain.CanTransitionTo(m.intent.Status, result.Status) {
		m.setStatus(result.Status)
	}
	out := *m.intent
	return &out, nil
}

// Intent returns a copy of the active intent, or nil.
func (m *Manager) Intent() *domain.PaymentIntent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.intent == nil {
		return nil
	}
	out := *m.intent
	return &out
}

// setStatus updates the intent and writes the change back to the cart.
// Callers hold m.mu.
func (m *Manager) setStatus(status domain.IntentStatus) {
	m.intent.Status = status
	m.cart.SetPaymentState(m.intent.ID, status)
}

// categorized guarantees no raw gateway error escapes without a kind.
// Errors nothing classified stay unknown rather than masquerading as a
// known kind.
func (m *Manager) categorized(err error) error {
	if domain.KindOf(err) == domain.KindUnknown {
		return domain.Categorize(domain.KindUnknown, err)
	}
	return err
}
