package domain

// Step is one screen of the checkout wizard, ordinal 0-4. A step beyond
// StepPayment denotes a completed checkout.
type Step int

const (
	StepCartReview Step = iota
	StepServiceConfiguration
	StepCustomerDetails
	StepOrderSummary
	StepPayment
	StepComplete

	StepCount = 5
)

func (s Step) String() string {
	switch s {
	case StepCartReview:
		return "CartReview"
	case StepServiceConfiguration:
		return "ServiceConfiguration"
	case StepCustomerDetails:
		return "CustomerDetails"
	case StepOrderSummary:
		return "OrderSummary"
	case StepPayment:
		return "Payment"
	default:
		return "Complete"
	}
}

// Valid reports whether s is one of the five wizard screens. The
// complete state is not a screen and cannot be jumped to directly.
func (s Step) Valid() bool {
	return s >= StepCartReview && s <= StepPayment
}

// IsComplete reports whether the checkout has moved past the last screen.
func (s Step) IsComplete() bool {
	return s > StepPayment
}
