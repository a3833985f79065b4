package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fjod/go_ordering/internal/domain"
)

// MemoryRepository is an in-process CartRepository. Each operation holds
// the lock for the whole read-modify-write, giving the same atomicity the
// mongo implementation gets from single UpdateOne round trips.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string]*domain.Cart),
	}
}

func (m *MemoryRepository) GetCart(_ context.Context, cartID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (m *MemoryRepository) UpsertCart(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyCart(cart)
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.carts[cart.CartID] = stored
	return nil
}

func (m *MemoryRepository) AddItem(_ context.Context, cartID string, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	cart, ok := m.carts[cartID]
	if !ok {
		m.carts[cartID] = &domain.Cart{
			CartID:    cartID,
			Items:     []domain.CartItem{copyItem(item)},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	}

	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = copyItem(item)
			cart.UpdatedAt = now
			return nil
		}
	}
	cart.Items = append(cart.Items, copyItem(item))
	cart.UpdatedAt = now
	return nil
}

func (m *MemoryRepository) UpdateItemQuantity(_ context.Context, cartID, itemID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return ErrItemNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *MemoryRepository) SetItemConfiguration(_ context.Context, cartID, itemID string, config map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return ErrItemNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Configuration = copyConfig(config)
			cart.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *MemoryRepository) RemoveItem(_ context.Context, cartID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	for i, item := range cart.Items {
		if item.ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *MemoryRepository) DeleteCart(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.carts[cartID]; !ok {
		return ErrCartNotFound
	}
	delete(m.carts, cartID)
	return nil
}

func copyCart(cart *domain.Cart) *domain.Cart {
	out := *cart
	out.Items = make([]domain.CartItem, len(cart.Items))
	for i, item := range cart.Items {
		out.Items[i] = copyItem(item)
	}
	return &out
}

func copyItem(item domain.CartItem) domain.CartItem {
	item.Configuration = copyConfig(item.Configuration)
	return item
}

func copyConfig(config map[string]any) map[string]any {
	if config == nil {
		return nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
