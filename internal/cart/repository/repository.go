package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_ordering/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// CartRepository defines the interface for cart persistence. Every
// read-modify-write operation is a single atomic round trip so two
// concurrent updates to different items cannot lose each other's write.
type CartRepository interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	AddItem(ctx context.Context, cartID string, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	SetItemConfiguration(ctx context.Context, cartID, itemID string, config map[string]any) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	DeleteCart(ctx context.Context, cartID string) error
}
