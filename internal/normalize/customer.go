// Package normalize produces canonical Customer and Order shapes from the
// heterogeneous payloads the backend versions and partially-filled client
// state send us. Both entry points are pure, perform no I/O, and are
// idempotent: normalizing an already-normalized value changes nothing.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fjod/go_ordering/internal/domain"
)

// Customer fills every field from its fallback chain. A nil input stays
// nil; an empty object yields a zero Customer.
func Customer(raw map[string]any) *domain.Customer {
	if raw == nil {
		return nil
	}
	return &domain.Customer{
		ID:               stringField(raw, "id", "_id", "customerId"),
		CustomerType:     domain.ParseCustomerType(stringField(raw, "customerType", "type")),
		FirstName:        stringField(raw, "firstName"),
		LastName:         stringField(raw, "lastName"),
		CompanyName:      stringField(raw, "companyName"),
		CompanyRegNumber: stringField(raw, "companyRegNumber", "companyRegistrationNumber"),
		Email:            stringField(raw, "email"),
		PhoneNumber:      stringField(raw, "phoneNumber", "phone"),
		DateOfBirth:      stringField(raw, "dateOfBirth", "dob"),
		NationalIDNumber: stringField(raw, "nationalIdNumber", "nationalId"),
		Address:          stringField(raw, "address", "addressLine1"),
		City:             stringField(raw, "city", "town"),
		Postcode:         stringField(raw, "postcode", "zipcode"),
		MarketingConsent: boolField(raw, "marketingConsent"),
	}
}

// stringField returns the first present, non-empty string among keys.
func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case json.Number:
			return s.String()
		}
	}
	return ""
}

func boolField(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case bool:
			return v
		case string:
			return strings.EqualFold(v, "true")
		}
	}
	return false
}

// numberField returns the first parseable number among keys.
func numberField(raw map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func mapField(raw map[string]any, key string) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	return nil
}
