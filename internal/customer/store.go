package customer

import (
	"context"
	"errors"

	"github.com/fjod/go_ordering/internal/domain"
)

// Store keeps a single remembered customer profile so details entered
// during one checkout can prefill the next one.
type Store interface {
	GetSavedCustomer(ctx context.Context) (*domain.Customer, error)
	SaveCustomer(ctx context.Context, raw map[string]any) error
	Clear(ctx context.Context) error
}

var ErrNoSavedCustomer = errors.New("no saved customer")
