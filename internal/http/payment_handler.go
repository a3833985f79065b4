package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_ordering/internal/payment"
)

type PaymentHandler struct {
	manager *payment.Manager
	timeout time.Duration
}

func NewPaymentHandler(manager *payment.Manager, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		manager: manager,
		timeout: timeout,
	}
}

type ConfirmRequestDTO struct {
	PaymentMethodRef string `json:"paymentMethodRef"`
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	intent, err := h.manager.CreateIntent(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, intent)
}

func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}
	if req.PaymentMethodRef == "" {
		respondError(w, http.StatusBadRequest, "validation", "paymentMethodRef is required")
		return
	}

	intent, err := h.manager.ConfirmPayment(ctx, req.PaymentMethodRef)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, intent)
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.manager.CancelPayment(ctx); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.manager.Intent())
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.manager.RefundPayment(ctx); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.manager.Intent())
}

func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	intent, err := h.manager.ReconcileStatus(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, intent)
}
