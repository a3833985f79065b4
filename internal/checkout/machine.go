// Package checkout drives the linear step sequence of one checkout
// session. The machine holds position only; cart side effects belong to
// the cart store.
package checkout

import (
	"errors"
	"log"

	"github.com/fjod/go_ordering/internal/configuration"
	"github.com/fjod/go_ordering/internal/domain"
)

var (
	ErrCartEmpty       = errors.New("cannot advance with an empty cart")
	ErrCustomerMissing = errors.New("customer email required for payment step")
)

// CartReader is the slice of cart state the machine gates on.
type CartReader interface {
	ItemCount() int
	Items() []domain.CartItem
	Configuration(itemID string) map[string]any
	Customer() domain.Customer
}

type Machine struct {
	cart CartReader
	step domain.Step
}

func NewMachine(cart CartReader) *Machine {
	return &Machine{cart: cart, step: domain.StepCartReview}
}

func (m *Machine) Current() domain.Step { return m.step }

// Next advances one step. Preconditions for entering the target step are
// checked here; configuration completeness gating for leaving the
// service-configuration step is the caller's job via ItemValidation.
// Advancing past the payment step marks the checkout complete, where
// further calls clamp.
func (m *Machine) Next() (domain.Step, error) {
	if m.step.IsComplete() {
		return m.step, nil
	}
	target := m.step + 1
	if target.Valid() {
		if err := m.canEnter(target); err != nil {
			return m.step, domain.Categorize(domain.KindValidation, err)
		}
	}
	m.step = target
	return m.step, nil
}

// IsComplete reports whether the checkout has finished all five steps.
func (m *Machine) IsComplete() bool {
	return m.step.IsComplete()
}

// Back moves one step towards cart review. At the first step it reports
// that the user is leaving checkout instead of moving.
func (m *Machine) Back() (step domain.Step, leftCheckout bool) {
	if m.step == domain.StepCartReview {
		return m.step, true
	}
	m.step--
	return m.step, false
}

// JumpTo moves directly to a previously reachable step. Out-of-range
// targets are ignored.
func (m *Machine) JumpTo(target domain.Step) domain.Step {
	if !target.Valid() {
		log.Printf("ignoring jump to out-of-range checkout step %d", target)
		return m.step
	}
	if err := m.canEnter(target); err != nil {
		log.Printf("ignoring jump to step %s: %v", target, err)
		return m.step
	}
	m.step = target
	return m.step
}

func (m *Machine) canEnter(target domain.Step) error {
	if target > domain.StepCartReview && m.cart.ItemCount() == 0 {
		return ErrCartEmpty
	}
	if target == domain.StepPayment && m.cart.Customer().Email == "" {
		return ErrCustomerMissing
	}
	return nil
}

// ItemValidation is one item's configuration completeness.
type ItemValidation struct {
	ItemID        string
	Title         string
	Completion    int
	MissingLabels []string
}

func (v ItemValidation) Complete() bool { return v.Completion == 100 }

// ValidateConfiguration evaluates every cart item against the required
// fields for its type. Callers use it to gate leaving the
// service-configuration step.
func (m *Machine) ValidateConfiguration() []ItemValidation {
	items := m.cart.Items()
	out := make([]ItemValidation, 0, len(items))
	for _, item := range items {
		config := m.cart.Configuration(item.ID)
		out = append(out, ItemValidation{
			ItemID:        item.ID,
			Title:         item.Title,
			Completion:    configuration.CompletionPercentage(item.Type, config),
			MissingLabels: configuration.MissingFields(item.Type, config),
		})
	}
	return out
}

// ConfigurationComplete reports whether every item is fully configured.
func (m *Machine) ConfigurationComplete() bool {
	for _, v := range m.ValidateConfiguration() {
		if !v.Complete() {
			return false
		}
	}
	return true
}
