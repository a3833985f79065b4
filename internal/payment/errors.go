package payment

import "errors"

var (
	ErrMissingEmail      = errors.New("customer email is required before payment")
	ErrEmptyCart         = errors.New("cannot take payment for an empty cart")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
	ErrNoActiveIntent    = errors.New("no active payment intent")
	ErrInvalidTransition = errors.New("invalid payment status transition")
)
