package domain

type IntentStatus string

const (
	IntentStatusNone       IntentStatus = "none"
	IntentStatusCreated    IntentStatus = "created"
	IntentStatusProcessing IntentStatus = "processing"
	IntentStatusSucceeded  IntentStatus = "succeeded"
	IntentStatusFailed     IntentStatus = "failed"
	IntentStatusCancelled  IntentStatus = "cancelled"
	IntentStatusRefunded   IntentStatus = "refunded"
)

// IsTerminal reports whether the intent can never move again except via a
// fresh intent. A failed intent is not terminal: it is retried with the
// same id and client secret.
func (s IntentStatus) IsTerminal() bool {
	return s == IntentStatusSucceeded || s == IntentStatusCancelled || s == IntentStatusRefunded
}

// String representation (for logging)
func (s IntentStatus) String() string {
	return string(s)
}

var intentTransitions = map[IntentStatus][]IntentStatus{
	IntentStatusNone:       {IntentStatusCreated},
	IntentStatusCreated:    {IntentStatusProcessing, IntentStatusSucceeded, IntentStatusFailed, IntentStatusCancelled},
	IntentStatusProcessing: {IntentStatusSucceeded, IntentStatusFailed, IntentStatusCancelled},
	IntentStatusFailed:     {IntentStatusProcessing, IntentStatusSucceeded, IntentStatusFailed, IntentStatusCancelled},
	IntentStatusSucceeded:  {IntentStatusRefunded},
}

func CanTransitionTo(from, to IntentStatus) bool {
	for _, allowed := range intentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PaymentIntent is the gateway-side handle for one payment attempt.
// ClientSecret is write-once per intent.
type PaymentIntent struct {
	ID               string       `json:"id"`
	ClientSecret     string       `json:"clientSecret"`
	AmountMinor      int64        `json:"amountMinorUnits"`
	Status           IntentStatus `json:"status"`
	OrderID          string       `json:"orderId,omitempty"`
	PaymentMethodRef string       `json:"paymentMethodRef,omitempty"`
}
