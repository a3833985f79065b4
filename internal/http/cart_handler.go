package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_ordering/internal/cart"
	"github.com/fjod/go_ordering/internal/customer"
	"github.com/fjod/go_ordering/internal/domain"
	"github.com/fjod/go_ordering/internal/money"
	"github.com/fjod/go_ordering/internal/normalize"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	store    *cart.Store
	saved    customer.Store
	currency string
	timeout  time.Duration
}

func NewCartHandler(store *cart.Store, saved customer.Store, currency string, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:    store,
		saved:    saved,
		currency: currency,
		timeout:  timeout,
	}
}

type CartResponseDTO struct {
	CartID         string            `json:"cartId"`
	Items          []domain.CartItem `json:"items"`
	Total          float64           `json:"total"`
	TotalFormatted string            `json:"totalFormatted"`
	ItemCount      int               `json:"itemCount"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Catalog payloads arrive in several shapes; normalize before storing.
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}
	item := normalize.Item(raw)

	if err := h.store.AddItem(ctx, item); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if err := h.store.UpdateQuantity(ctx, itemID, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if err := h.store.RemoveItem(ctx, itemID); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Clear(ctx); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) MergeConfigurations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var patch map[string]map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	if err := h.store.MergeConfigurations(ctx, patch); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var patch cart.CustomerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	h.store.UpdateCustomerInfo(patch)
	respondJSON(w, http.StatusOK, h.store.Customer())
}

func (h *CartHandler) UpdateBilling(w http.ResponseWriter, r *http.Request) {
	var patch cart.BillingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	h.store.UpdateBillingInfo(patch)
	respondJSON(w, http.StatusOK, h.store.Billing())
}

// SaveCustomer remembers the current customer details for future
// checkouts. Only called when the user opts in.
func (h *CartHandler) SaveCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	current := h.store.Customer()
	raw, err := json.Marshal(current)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "server", "could not serialize customer")
		return
	}
	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		respondError(w, http.StatusInternalServerError, "server", "could not serialize customer")
		return
	}

	if err := h.saved.SaveCustomer(ctx, blob); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, current)
}

func (h *CartHandler) ForgetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.saved.Clear(ctx); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *CartHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.store.CreateOrder(ctx, nil)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	total := h.store.TotalAmount()
	return CartResponseDTO{
		CartID:         h.store.CartID(),
		Items:          h.store.Items(),
		Total:          total,
		TotalFormatted: money.Format(total, h.currency),
		ItemCount:      h.store.ItemCount(),
	}
}
