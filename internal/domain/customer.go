package domain

import "strings"

type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "INDIVIDUAL"
	CustomerTypeCompany    CustomerType = "COMPANY"
)

func ParseCustomerType(s string) CustomerType {
	if strings.EqualFold(s, string(CustomerTypeCompany)) {
		return CustomerTypeCompany
	}
	return CustomerTypeIndividual
}

type Customer struct {
	ID               string       `json:"id"`
	CustomerType     CustomerType `json:"customerType"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	CompanyName      string       `json:"companyName"`
	CompanyRegNumber string       `json:"companyRegNumber"`
	Email            string       `json:"email"`
	PhoneNumber      string       `json:"phoneNumber"`
	DateOfBirth      string       `json:"dateOfBirth"`
	NationalIDNumber string       `json:"nationalIdNumber"`
	Address          string       `json:"address"`
	City             string       `json:"city"`
	Postcode         string       `json:"postcode"`
	MarketingConsent bool         `json:"marketingConsent"`
}

// Name is the derived display name: the company name for COMPANY
// customers, otherwise "firstName lastName" trimmed.
func (c Customer) Name() string {
	if c.CustomerType == CustomerTypeCompany {
		return c.CompanyName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
