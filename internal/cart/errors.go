package cart

import "errors"

var (
	ErrEmptyCart     = errors.New("cart is empty, nothing to order")
	ErrMissingItemID = errors.New("cart item requires an id")
	ErrNegativePrice = errors.New("cart item price cannot be negative")
	ErrUnknownItem   = errors.New("no such item in cart")
)
