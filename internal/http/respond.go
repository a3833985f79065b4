package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fjod/go_ordering/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Kind:  kind,
	})
}

// handleDomainError maps a categorized error onto an HTTP status.
func handleDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindAuthentication:
		status = http.StatusUnauthorized
	case domain.KindDeclined:
		status = http.StatusPaymentRequired
	case domain.KindProcessing, domain.KindServer:
		status = http.StatusBadGateway
	case domain.KindNetwork:
		status = http.StatusGatewayTimeout
	}
	respondError(w, status, string(kind), err.Error())
}
