package normalize

import (
	"time"

	"github.com/fjod/go_ordering/internal/domain"
)

// Order normalizes a raw order payload. The canonical amount is derived
// from the first present of amount, grandTotalToPay, itemsTotal; when all
// are absent it falls back to the sum of item price x quantity.
func Order(raw map[string]any) *domain.Order {
	if raw == nil {
		return nil
	}

	order := &domain.Order{
		ID:             stringField(raw, "id", "_id", "orderId"),
		CustomerID:     stringField(raw, "customerId"),
		OrderReference: stringField(raw, "orderReference", "reference"),
		Status:         domain.ParseOrderStatus(stringField(raw, "status")),
	}

	if items, ok := raw["items"].([]any); ok {
		order.Items = make([]domain.CartItem, 0, len(items))
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			order.Items = append(order.Items, Item(m))
		}
	}

	if amount, ok := numberField(raw, "amount", "grandTotalToPay", "itemsTotal"); ok {
		order.Amount = amount
	} else {
		var sum float64
		for _, it := range order.Items {
			sum += it.Subtotal()
		}
		order.Amount = sum
	}

	if ps, ok := numberField(raw, "paymentStatus"); ok {
		order.PaymentStatus = int(ps)
	}

	if cust := mapField(raw, "customer"); cust != nil {
		order.Customer = Customer(cust)
		if order.CustomerID == "" {
			order.CustomerID = order.Customer.ID
		}
	}

	order.CreatedAt = timeField(raw, "createdAt")
	order.UpdatedAt = timeField(raw, "updatedAt")

	return order
}

// Item fixes up a single raw item: _id/id/service field unification,
// price and quantity coercion with defaults 0 and 1.
func Item(raw map[string]any) domain.CartItem {
	service := mapField(raw, "service")

	item := domain.CartItem{
		ID:            stringField(raw, "id", "_id"),
		Title:         stringField(raw, "title", "name"),
		Type:          domain.ParseItemType(stringField(raw, "type")),
		Configuration: mapField(raw, "configuration"),
		Quantity:      1,
	}

	if service != nil {
		if item.ID == "" {
			item.ID = stringField(service, "id", "_id")
		}
		if item.Title == "" {
			item.Title = stringField(service, "title", "name")
		}
		if _, ok := raw["type"]; !ok {
			item.Type = domain.ParseItemType(stringField(service, "type"))
		}
	}

	if price, ok := numberField(raw, "price"); ok {
		item.Price = price
	} else if service != nil {
		if price, ok := numberField(service, "price"); ok {
			item.Price = price
		}
	}

	if qty, ok := numberField(raw, "quantity"); ok && int(qty) >= 1 {
		item.Quantity = int(qty)
	}

	return item
}

func timeField(raw map[string]any, key string) time.Time {
	s, ok := raw[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
