package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) OrderStatus {
	switch OrderStatus(s) {
	case OrderStatusPaid, OrderStatusCancelled:
		return OrderStatus(s)
	default:
		return OrderStatusPending
	}
}

// Order is the checkout-finalized representation of a cart. Amount is
// canonical and in major units.
type Order struct {
	ID             string      `json:"id"`
	Amount         float64     `json:"amount"`
	Items          []CartItem  `json:"items"`
	Customer       *Customer   `json:"customer,omitempty"`
	CustomerID     string      `json:"customerId"`
	OrderReference string      `json:"orderReference"`
	Status         OrderStatus `json:"status"`
	PaymentStatus  int         `json:"paymentStatus"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Integer payment status codes carried on orders.
const (
	PaymentStatusNone       = 0
	PaymentStatusCreated    = 1
	PaymentStatusProcessing = 2
	PaymentStatusSucceeded  = 3
	PaymentStatusFailed     = 4
	PaymentStatusCancelled  = 5
	PaymentStatusRefunded   = 6
)

// PaymentStatusCode maps an intent status to the order-level integer code.
func PaymentStatusCode(s IntentStatus) int {
	switch s {
	case IntentStatusCreated:
		return PaymentStatusCreated
	case IntentStatusProcessing:
		return PaymentStatusProcessing
	case IntentStatusSucceeded:
		return PaymentStatusSucceeded
	case IntentStatusFailed:
		return PaymentStatusFailed
	case IntentStatusCancelled:
		return PaymentStatusCancelled
	case IntentStatusRefunded:
		return PaymentStatusRefunded
	default:
		return PaymentStatusNone
	}
}
