package customer

import "github.com/fjod/go_ordering/internal/domain"

// MergeDefaults builds the prefill for the customer-details step.
// Field-wise the current edits win, then the remembered profile, then
// the account profile. Any argument may be nil.
func MergeDefaults(profile, saved, edits *domain.Customer) domain.Customer {
	var out domain.Customer
	for _, src := range []*domain.Customer{profile, saved, edits} {
		if src == nil {
			continue
		}
		overlay(&out, src)
	}
	return out
}

func overlay(dst *domain.Customer, src *domain.Customer) {
	pick(&dst.ID, src.ID)
	pick(&dst.FirstName, src.FirstName)
	pick(&dst.LastName, src.LastName)
	pick(&dst.CompanyName, src.CompanyName)
	pick(&dst.CompanyRegNumber, src.CompanyRegNumber)
	pick(&dst.Email, src.Email)
	pick(&dst.PhoneNumber, src.PhoneNumber)
	pick(&dst.DateOfBirth, src.DateOfBirth)
	pick(&dst.NationalIDNumber, src.NationalIDNumber)
	pick(&dst.Address, src.Address)
	pick(&dst.City, src.City)
	pick(&dst.Postcode, src.Postcode)
	if src.CustomerType != "" {
		dst.CustomerType = src.CustomerType
	}
	if src.MarketingConsent {
		dst.MarketingConsent = true
	}
}

func pick(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
