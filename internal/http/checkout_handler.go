package http

import (
	"encoding/json"
	"net/http"

	"github.com/fjod/go_ordering/internal/checkout"
	"github.com/fjod/go_ordering/internal/domain"
)

type CheckoutHandler struct {
	machine *checkout.Machine
}

func NewCheckoutHandler(machine *checkout.Machine) *CheckoutHandler {
	return &CheckoutHandler{machine: machine}
}

type StepResponseDTO struct {
	Step         int    `json:"step"`
	Name         string `json:"name"`
	Complete     bool   `json:"complete"`
	LeftCheckout bool   `json:"leftCheckout,omitempty"`
}

type JumpRequestDTO struct {
	Step int `json:"step"`
}

func (h *CheckoutHandler) CurrentStep(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, stepResponse(h.machine.Current(), false))
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	step, err := h.machine.Next()
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stepResponse(step, false))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	step, left := h.machine.Back()
	respondJSON(w, http.StatusOK, stepResponse(step, left))
}

func (h *CheckoutHandler) Jump(w http.ResponseWriter, r *http.Request) {
	var req JumpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	step := h.machine.JumpTo(domain.Step(req.Step))
	respondJSON(w, http.StatusOK, stepResponse(step, false))
}

func (h *CheckoutHandler) Validation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"items":    h.machine.ValidateConfiguration(),
		"complete": h.machine.ConfigurationComplete(),
	})
}

func stepResponse(step domain.Step, left bool) StepResponseDTO {
	return StepResponseDTO{
		Step:         int(step),
		Name:         step.String(),
		Complete:     step.IsComplete(),
		LeftCheckout: left,
	}
}
