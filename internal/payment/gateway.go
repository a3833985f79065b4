package payment

import (
	"context"

	"github.com/fjod/go_ordering/internal/domain"
)

// CreateIntentRequest carries everything the gateway needs to open a
// payment attempt. Amount is always in minor units.
type CreateIntentRequest struct {
	AmountMinor    int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Description    string            `json:"description,omitempty"`
	CustomerName   string            `json:"customerName,omitempty"`
	CustomerEmail  string            `json:"customerEmail"`
	IdempotencyKey string            `json:"idempotencyKey"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// IntentResult is the gateway's view of an intent after any call.
type IntentResult struct {
	IntentID     string              `json:"intentId"`
	ClientSecret string              `json:"clientSecret,omitempty"`
	Status       domain.IntentStatus `json:"status"`
	Message      string              `json:"message,omitempty"`
}

// Gateway is the payment-provider capability. Implementations must
// return errors already categorized via domain.Categorize.
type Gateway interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResult, error)
	ConfirmIntent(ctx context.Context, intentID, paymentMethodRef string) (*IntentResult, error)
	CancelIntent(ctx context.Context, intentID string) error
	RefundIntent(ctx context.Context, intentID string) error
	RetrieveIntent(ctx context.Context, intentID string) (*IntentResult, error)
}
