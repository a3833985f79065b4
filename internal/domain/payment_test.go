package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, CanTransitionTo(IntentStatusNone, IntentStatusCreated))
	assert.True(t, CanTransitionTo(IntentStatusCreated, IntentStatusProcessing))
	assert.True(t, CanTransitionTo(IntentStatusProcessing, IntentStatusFailed))
	assert.True(t, CanTransitionTo(IntentStatusFailed, IntentStatusProcessing), "failed intents are retried")
	assert.True(t, CanTransitionTo(IntentStatusSucceeded, IntentStatusRefunded))

	assert.False(t, CanTransitionTo(IntentStatusSucceeded, IntentStatusProcessing))
	assert.False(t, CanTransitionTo(IntentStatusCancelled, IntentStatusCreated))
	assert.False(t, CanTransitionTo(IntentStatusRefunded, IntentStatusProcessing))
	assert.False(t, CanTransitionTo(IntentStatusNone, IntentStatusSucceeded))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IntentStatusSucceeded.IsTerminal())
	assert.True(t, IntentStatusCancelled.IsTerminal())
	assert.True(t, IntentStatusRefunded.IsTerminal())
	assert.False(t, IntentStatusFailed.IsTerminal())
	assert.False(t, IntentStatusProcessing.IsTerminal())
	assert.False(t, IntentStatusNone.IsTerminal())
}

func TestPaymentStatusCode(t *testing.T) {
	assert.Equal(t, PaymentStatusNone, PaymentStatusCode(IntentStatusNone))
	assert.Equal(t, PaymentStatusSucceeded, PaymentStatusCode(IntentStatusSucceeded))
	assert.Equal(t, PaymentStatusRefunded, PaymentStatusCode(IntentStatusRefunded))
	assert.Equal(t, PaymentStatusNone, PaymentStatusCode(IntentStatus("bogus")))
}

func TestCustomerName(t *testing.T) {
	c := Customer{FirstName: "Jo", LastName: "Bloggs"}
	assert.Equal(t, "Jo Bloggs", c.Name())

	c = Customer{FirstName: "Jo"}
	assert.Equal(t, "Jo", c.Name())

	c = Customer{CustomerType: CustomerTypeCompany, CompanyName: "Acme Ltd", FirstName: "Jo"}
	assert.Equal(t, "Acme Ltd", c.Name())

	assert.Equal(t, "", Customer{}.Name())
}
