// Package cart holds the single source of truth for the in-progress
// order: cart items, per-item configuration, customer and billing info,
// and payment state. All mutations go through the Store, which serializes
// them with an internal mutex rather than relying on the UI disabling
// buttons while an operation is in flight.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/go_ordering/internal/cart/repository"
	"github.com/fjod/go_ordering/internal/configuration"
	"github.com/fjod/go_ordering/internal/domain"
)

// OrderWriter is the order-persistence collaborator. Consumers define
// this interface, not the Postgres implementation.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// Op identifies which mutation an Event describes.
type Op string

const (
	OpAddItem             Op = "add_item"
	OpRemoveItem          Op = "remove_item"
	OpUpdateQuantity      Op = "update_quantity"
	OpClear               Op = "clear"
	OpMergeConfigurations Op = "merge_configurations"
	OpUpdateCustomer      Op = "update_customer"
	OpUpdateBilling       Op = "update_billing"
	OpCreateOrder         Op = "create_order"
	OpPaymentState        Op = "payment_state"
)

// Event is published to subscribers after a successful mutation.
type Event struct {
	Op     Op
	ItemID string
}

type Store struct {
	mu     sync.RWMutex
	repo   repository.CartRepository
	orders OrderWriter
	cartID string

	items          []domain.CartItem
	configurations map[string]map[string]any
	customer       domain.Customer
	billing        domain.BillingInfo

	paymentIntentID string
	paymentStatus   domain.IntentStatus

	total      float64 // memoized sum of price x quantity, recomputed on item change
	inProgress bool
	lastErr    error

	subsMu    sync.RWMutex
	subs      map[int]func(Event)
	nextSubID int
}

// NewStore creates a Store persisting through repo. A nil repo gets an
// in-process repository.
func NewStore(cartID string, repo repository.CartRepository, orders OrderWriter) *Store {
	if repo == nil {
		repo = repository.NewMemoryRepository()
	}
	return &Store{
		repo:           repo,
		orders:         orders,
		cartID:         cartID,
		configurations: make(map[string]map[string]any),
		paymentStatus:  domain.IntentStatusNone,
		subs:           make(map[int]func(Event)),
	}
}

// Load hydrates the store from the repository. A missing cart is not an
// error, just an empty cart.
func (s *Store) Load(ctx context.Context) error {
	cart, err := s.repo.GetCart(ctx, s.cartID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil
		}
		return fmt.Errorf("load cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cart.Items
	s.configurations = make(map[string]map[string]any)
	for _, item := range cart.Items {
		if item.Configuration != nil {
			s.configurations[item.ID] = item.Configuration
		}
	}
	s.recomputeTotal()
	return nil
}

func (s *Store) CartID() string { return s.cartID }

// Subscribe registers a callback invoked after each successful mutation.
// Callbacks must not call back into the Store's mutating operations.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) notify(ev Event) {
	s.subsMu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// finish records the outcome of a mutation while still holding the lock.
func (s *Store) finish(err error) {
	s.inProgress = false
	if err != nil {
		s.lastErr = err
	}
}

func (s *Store) OperationInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress
}

func (s *Store) LastOperationError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) ResetOperationError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// AddItem puts an item in the cart, replacing any existing item with the
// same id. Quantity is clamped to at least 1.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem) (err error) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(err)
		s.mu.Unlock()
		if err == nil {
			s.notify(Event{Op: OpAddItem, ItemID: item.ID})
		}
	}()

	if item.ID == "" {
		return domain.Categorize(domain.KindValidation, ErrMissingItemID)
	}
	if item.Price < 0 {
		return domain.Categorize(domain.KindValidation, ErrNegativePrice)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if err = s.repo.AddItem(ctx, s.cartID, item); err != nil {
		return domain.Categorize(domain.KindServer, err)
	}

	replaced := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, item)
	}
	if item.Configuration != nil {
		s.configurations[item.ID] = item.Configuration
	}
	s.recomputeTotal()
	return nil
}

// RemoveItem removes the item and its configuration entry; the repository
// drops both in one round trip.
func (s *Store) RemoveItem(ctx context.Context, itemID string) (err error) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(err)
		s.mu.Unlock()
		if err == nil {
			s.notify(Event{Op: OpRemoveItem, ItemID: itemID})
		}
	}()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return domain.Categorize(domain.KindValidation, ErrUnknownItem)
	}

	if err = s.repo.RemoveItem(ctx, s.cartID, itemID); err != nil {
		return domain.Categorize(domain.KindServer, err)
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	delete(s.configurations, itemID)
	s.recomputeTotal()
	return nil
}

// UpdateQuantity sets an item's quantity, clamped to at least 1. The
// read and write happen under one lock and one repository round trip, so
// concurrent updates to different items cannot lose each other.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) (err error) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(err)
		s.mu.Unlock()
		if err == nil {
			s.notify(Event{Op: OpUpdateQuantity, ItemID: itemID})
		}
	}()

	if quantity < 1 {
		quantity = 1
	}

	idx := s.indexOf(itemID)
	if idx < 0 {
		return domain.Categorize(domain.KindValidation, ErrUnknownItem)
	}

	if err = s.repo.UpdateItemQuantity(ctx, s.cartID, itemID, quantity); err != nil {
		return domain.Categorize(domain.KindServer, err)
	}

	s.items[idx].Quantity = quantity
	s.recomputeTotal()
	return nil
}

// Clear empties the cart and resets customer, billing and payment state:
// a full cart clear is a checkout reset, not merely an inventory change.
func (s *Store) Clear(ctx context.Context) (err error) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(err)
		s.mu.Unlock()
		if err == nil {
			s.notify(Event{Op: OpClear})
		}
	}()

	if err = s.repo.DeleteCart(ctx, s.cartID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return domain.Categorize(domain.KindServer, err)
	}
	err = nil

	s.reset()
	return nil
}

// reset clears all state slices. Caller holds the lock.
func (s *Store) reset() {
	s.items = nil
	s.configurations = make(map[string]map[string]any)
	s.customer = domain.Customer{}
	s.billing = domain.BillingInfo{}
	s.paymentIntentID = ""
	s.paymentStatus = domain.IntentStatusNone
	s.total = 0
}

// MergeConfigurations deep-merges each partial configuration into the
// matching item's existing configuration, then re-derives the item with
// the merged blob and persists it. Patches for unknown item ids are
// rejected so configuration can never outlive its item.
func (s *Store) MergeConfigurations(ctx context.Context, patch map[string]map[string]any) (err error) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(err)
		s.mu.Unlock()
		if err == nil {
			s.notify(Event{Op: OpMergeConfigurations})
		}
	}()

	for itemID := range patch {
		if s.indexOf(itemID) < 0 {
			return domain.Categorize(domain.KindValidation, fmt.Errorf("%w: %s", ErrUnknownItem, itemID))
		}
	}

	for itemID, partial := range patch {
		merged, mergeErr := configuration.Merge(s.configurations[itemID], partial)
		if mergeErr != nil {
			err = domain.Categorize(domain.KindValidation, mergeErr)
			return err
		}

		if repoErr := s.repo.SetItemConfiguration(ctx, s.cartID, itemID, merged); repoErr != nil {
			err = domain.Categorize(domain.KindServer, repoErr)
			return err
		}

		s.configurations[itemID] = merged
		idx := s.indexOf(itemID)
		s.items[idx].Configuration = merged
	}
	return nil
}

// CustomerPatch is a partial customer update; nil fields are left alone.
type CustomerPatch struct {
	ID               *string
	CustomerType     *domain.CustomerType
	FirstName        *string
	LastName         *string
	CompanyName      *string
	CompanyRegNumber *string
	Email            *string
	PhoneNumber      *string
	DateOfBirth      *string
	NationalIDNumber *string
	Address          *string
	City             *string
	Postcode         *string
	MarketingConsent *bool
}

func (s *Store) UpdateCustomerInfo(patch CustomerPatch) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(nil)
		s.mu.Unlock()
		s.notify(Event{Op: OpUpdateCustomer})
	}()

	setString(&s.customer.ID, patch.ID)
	if patch.CustomerType != nil {
		s.customer.CustomerType = *patch.CustomerType
	}
	setString(&s.customer.FirstName, patch.FirstName)
	setString(&s.customer.LastName, patch.LastName)
	setString(&s.customer.CompanyName, patch.CompanyName)
	setString(&s.customer.CompanyRegNumber, patch.CompanyRegNumber)
	setString(&s.customer.Email, patch.Email)
	setString(&s.customer.PhoneNumber, patch.PhoneNumber)
	setString(&s.customer.DateOfBirth, patch.DateOfBirth)
	setString(&s.customer.NationalIDNumber, patch.NationalIDNumber)
	setString(&s.customer.Address, patch.Address)
	setString(&s.customer.City, patch.City)
	setString(&s.customer.Postcode, patch.Postcode)
	if patch.MarketingConsent != nil {
		s.customer.MarketingConsent = *patch.MarketingConsent
	}
}

// SetCustomer replaces the whole customer slice, used when loading
// profile defaults or previously-saved details.
func (s *Store) SetCustomer(c domain.Customer) {
	s.mu.Lock()
	s.customer = c
	s.mu.Unlock()
	s.notify(Event{Op: OpUpdateCustomer})
}

// BillingPatch is a partial billing update; nil fields are left alone.
type BillingPatch struct {
	Address        *string
	City           *string
	Postcode       *string
	Country        *string
	SameAsCustomer *bool
}

func (s *Store) UpdateBillingInfo(patch BillingPatch) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(nil)
		s.mu.Unlock()
		s.notify(Event{Op: OpUpdateBilling})
	}()

	setString(&s.billing.Address, patch.Address)
	setString(&s.billing.City, patch.City)
	setString(&s.billing.Postcode, patch.Postcode)
	setString(&s.billing.Country, patch.Country)
	if patch.SameAsCustomer != nil {
		s.billing.SameAsCustomer = *patch.SameAsCustomer
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// OrderOverrides lets the caller pin fields on the order being created.
type OrderOverrides struct {
	OrderReference string
	CustomerID     string
	Status         domain.OrderStatus
}

// CreateOrder builds an Order from the current items, customer and
// configuration, submits it to the order-persistence collaborator and on
// success clears the cart. On failure the cart is left untouched. An
// empty cart fails validation without the collaborator ever being called.
func (s *Store) CreateOrder(ctx context.Context, overrides *OrderOverrides) (created *domain.Order, err error) {
	s.mu.Lock()
	s.inProgress = true
	defer func() {
		s.finish(err)
		s.mu.Unlock()
		if err == nil {
			s.notify(Event{Op: OpCreateOrder})
		}
	}()

	if len(s.items) == 0 {
		err = domain.Categorize(domain.KindValidation, ErrEmptyCart)
		return nil, err
	}

	customer := s.customer
	now := time.Now()
	order := &domain.Order{
		Amount:        s.total,
		Items:         s.copyItems(),
		Customer:      &customer,
		CustomerID:    customer.ID,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusCode(s.paymentStatus),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if overrides != nil {
		if overrides.OrderReference != "" {
			order.OrderReference = overrides.OrderReference
		}
		if overrides.CustomerID != "" {
			order.CustomerID = overrides.CustomerID
		}
		if overrides.Status != "" {
			order.Status = overrides.Status
		}
	}

	created, err = s.orders.CreateOrder(ctx, order)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnknown {
			err = domain.Categorize(domain.KindServer, err)
		}
		return nil, err
	}

	// The order is persisted; clear the cart. A failed delete must not
	// resurrect the cart in memory.
	if delErr := s.repo.DeleteCart(ctx, s.cartID); delErr != nil && !errors.Is(delErr, repository.ErrCartNotFound) {
		log.Printf("cart delete after order creation failed: %v", delErr)
	}
	s.reset()
	return created, nil
}

// TotalAmount is the memoized sum of price x quantity over current items.
// It is recomputed on every item change and cannot be set directly.
func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func (s *Store) recomputeTotal() {
	var sum float64
	for _, item := range s.items {
		sum += item.Subtotal()
	}
	s.total = sum
}

func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Items returns a copy of the current cart items, each with its merged
// configuration attached.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItems()
}

// copyItems clones the item slice. Caller holds the lock.
func (s *Store) copyItems() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	for i, item := range s.items {
		if cfg, ok := s.configurations[item.ID]; ok {
			item.Configuration = cloneConfig(cfg)
		}
		out[i] = item
	}
	return out
}

// Configuration returns a copy of one item's configuration blob, nil if
// the item has none.
func (s *Store) Configuration(itemID string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneConfig(s.configurations[itemID])
}

func (s *Store) Customer() domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customer
}

func (s *Store) Billing() domain.BillingInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.billing
}

// SetPaymentState is the write-back path for the payment lifecycle
// manager.
func (s *Store) SetPaymentState(intentID string, status domain.IntentStatus) {
	s.mu.Lock()
	s.paymentIntentID = intentID
	s.paymentStatus = status
	s.mu.Unlock()
	s.notify(Event{Op: OpPaymentState})
}

func (s *Store) PaymentState() (intentID string, status domain.IntentStatus) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paymentIntentID, s.paymentStatus
}

func (s *Store) indexOf(itemID string) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func cloneConfig(config map[string]any) map[string]any {
	if config == nil {
		return nil
	}
	merged, err := configuration.Merge(config, nil)
	if err != nil {
		return nil
	}
	return merged
}
