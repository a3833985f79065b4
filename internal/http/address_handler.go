package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_ordering/internal/address"
)

type AddressHandler struct {
	client  address.Client
	timeout time.Duration
}

func NewAddressHandler(client address.Client, timeout time.Duration) *AddressHandler {
	return &AddressHandler{
		client:  client,
		timeout: timeout,
	}
}

func (h *AddressHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	postcode := r.URL.Query().Get("postcode")
	if !address.ValidQuery(postcode) {
		respondError(w, http.StatusBadRequest, "validation", "postcode is too short or malformed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	suggestions, err := h.client.Lookup(ctx, postcode)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
