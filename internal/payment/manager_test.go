package payment

import (
	"context"
	"fmt"
	"testing"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCart struct {
	itemCount int
	total     float64
	customer  domain.Customer

	lastIntentID string
	lastStatus   domain.IntentStatus
}

func (m *mockCart) ItemCount() int            { return m.itemCount }
func (m *mockCart) TotalAmount() float64      { return m.total }
func (m *mockCart) Customer() domain.Customer { return m.customer }
func (m *mockCart) SetPaymentState(intentID string, status domain.IntentStatus) {
	m.lastIntentID = intentID
	m.lastStatus = status
}

type mockGateway struct {
	createCalls  int
	confirmCalls int
	cancelCalls  int
	refundCalls  int

	createErr    error
	confirmErr   error
	refundErr    error
	keys         []string
	retrieved    *IntentResult
	retrievedErr error
}

func (m *mockGateway) CreateIntent(_ context.Context, req CreateIntentRequest) (*IntentResult, error) {
	m.createCalls++
	m.keys = append(m.keys, req.IdempotencyKey)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &IntentResult{
		IntentID:     fmt.Sprintf("pi_%d", m.createCalls),
		ClientSecret: fmt.Sprintf("secret_%d", m.createCalls),
		Status:       domain.IntentStatusCreated,
	}, nil
}

func (m *mockGateway) ConfirmIntent(_ context.Context, intentID, _ string) (*IntentResult, error) {
	m.confirmCalls++
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	return &IntentResult{IntentID: intentID, Status: domain.IntentStatusSucceeded}, nil
}

func (m *mockGateway) CancelIntent(_ context.Context, _ string) error {
	m.cancelCalls++
	return nil
}

func (m *mockGateway) RefundIntent(_ context.Context, _ string) error {
	m.refundCalls++
	return m.refundErr
}

func (m *mockGateway) RetrieveIntent(_ context.Context, _ string) (*IntentResult, error) {
	return m.retrieved, m.retrievedErr
}

func readyCart() *mockCart {
	return &mockCart{
		itemCount: 1,
		total:     23,
		customer:  domain.Customer{FirstName: "Jo", Email: "jo@example.com"},
	}
}

func TestCreateIntent_Preconditions(t *testing.T) {
	gw := &mockGateway{}

	tests := []struct {
		name string
		cart *mockCart
		want error
	}{
		{"missing email", &mockCart{itemCount: 1, total: 23}, ErrMissingEmail},
		{"empty cart", &mockCart{customer: domain.Customer{Email: "jo@example.com"}}, ErrEmptyCart},
		{"zero amount", &mockCart{itemCount: 1, customer: domain.Customer{Email: "jo@example.com"}}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sut := NewManager(tt.cart, gw, "GBP")
			_, err := sut.CreateIntent(context.Background())
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
	assert.Equal(t, 0, gw.createCalls, "gateway must not be called when preconditions fail")
}

func TestCreateIntent_Idempotent(t *testing.T) {
	gw := &mockGateway{}
	sut := NewManager(readyCart(), gw, "GBP")
	ctx := context.Background()

	first, err := sut.CreateIntent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", first.ID)
	assert.Equal(t, int64(2300), first.AmountMinor)
	assert.Equal(t, domain.IntentStatusCreated, first.Status)

	second, err := sut.CreateIntent(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, gw.createCalls, "an active intent is reused, not recreated")
}

func TestCreateIntent_WritesBackToCart(t *testing.T) {
	gw := &mockGateway{}
	cart := readyCart()
	sut := NewManager(cart, gw, "GBP")

	_, err := sut.CreateIntent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pi_1", cart.lastIntentID)
	assert.Equal(t, domain.IntentStatusCreated, cart.lastStatus)
}

func TestConfirmPayment_Success(t *testing.T) {
	gw := &mockGateway{}
	cart := readyCart()
	sut := NewManager(cart, gw, "GBP")
	ctx := context.Background()

	_, err := sut.CreateIntent(ctx)
	require.NoError(t, err)

	intent, err := sut.ConfirmPayment(ctx, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusSucceeded, intent.Status)
	assert.Equal(t, "pm_card", intent.PaymentMethodRef)
	assert.Equal(t, domain.IntentStatusSucceeded, cart.lastStatus)
}

func TestConfirmPayment_FailureKeepsIntentForRetry(t *testing.T) {
	gw := &mockGateway{
		confirmErr: domain.Categorize(domain.KindDeclined, fmt.Errorf("card declined")),
	}
	sut := NewManager(readyCart(), gw, "GBP")
	ctx := context.Background()

	created, err := sut.CreateIntent(ctx)
	require.NoError(t, err)

	_, err = sut.ConfirmPayment(ctx, "pm_card")
	require.Error(t, err)
	assert.Equal(t, domain.KindDeclined, domain.KindOf(err))

	after := sut.Intent()
	require.NotNil(t, after)
	assert.Equal(t, domain.IntentStatusFailed, after.Status)
	assert.Equal(t, created.ID, after.ID)
	assert.Equal(t, created.ClientSecret, after.ClientSecret, "client secret survives a failed attempt")

	// The retry drives the same intent through the gateway again.
	gw.confirmErr = nil
	retried, err := sut.ConfirmPayment(ctx, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, created.ID, retried.ID)
	assert.Equal(t, domain.IntentStatusSucceeded, retried.Status)
	assert.Equal(t, 2, gw.confirmCalls)
	assert.Equal(t, 1, gw.createCalls)
}

// blockingGateway parks ConfirmIntent until released so tests can
// interleave other calls with an in-flight confirmation.
type blockingGateway struct {
	mockGateway
	confirmStarted chan struct{}
	confirmRelease chan struct{}
}

func (g *blockingGateway) ConfirmIntent(ctx context.Context, intentID, ref string) (*IntentResult, error) {
	close(g.confirmStarted)
	<-g.confirmRelease
	return g.mockGateway.ConfirmIntent(ctx, intentID, ref)
}

func TestConfirmPayment_CancelDuringConfirmStaysCancelled(t *testing.T) {
	gw := &blockingGateway{
		confirmStarted: make(chan struct{}),
		confirmRelease: make(chan struct{}),
	}
	gw.confirmErr = domain.Categorize(domain.KindNetwork, fmt.Errorf("gateway unreachable"))
	cart := readyCart()
	sut := NewManager(cart, gw, "GBP")
	ctx := context.Background()

	_, err := sut.CreateIntent(ctx)
	require.NoError(t, err)

	confirmDone := make(chan error, 1)
	go func() {
		_, err := sut.ConfirmPayment(ctx, "pm_card")
		confirmDone <- err
	}()

	<-gw.confirmStarted
	require.NoError(t, sut.CancelPayment(ctx))
	close(gw.confirmRelease)

	require.Error(t, <-confirmDone)

	// Cancelled is terminal and must not be downgraded to failed by the
	// confirmation that lost the race.
	after := sut.Intent()
	require.NotNil(t, after)
	assert.Equal(t, domain.IntentStatusCancelled, after.Status)
	assert.Equal(t, domain.IntentStatusCancelled, cart.lastStatus)
}

func TestCreateIntent_TerminalIntentRotatesKey(t *testing.T) {
	gw := &mockGateway{}
	sut := NewManager(readyCart(), gw, "GBP")
	ctx := context.Background()

	_, err := sut.CreateIntent(ctx)
	require.NoError(t, err)
	_, err = sut.ConfirmPayment(ctx, "pm_card")
	require.NoError(t, err)

	fresh, err := sut.CreateIntent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pi_2", fresh.ID)
	assert.Equal(t, domain.IntentStatusCreated, fresh.Status)

	require.Len(t, gw.keys, 2)
	assert.NotEqual(t, gw.keys[0], gw.keys[1], "a finished intent must not be deduplicated against")
}

func TestCreateIntent_GatewayTimeout(t *testing.T) {
	gw := &mockGateway{
		createErr: domain.Categorize(domain.KindNetwork, fmt.Errorf("failed to reach payment gateway: %w", context.DeadlineExceeded)),
	}
	sut := NewManager(readyCart(), gw, "GBP")

	_, err := sut.CreateIntent(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, sut.Intent())
}

func TestCreateIntent_UncategorizedErrorStaysUnknown(t *testing.T) {
	gw := &mockGateway{createErr: fmt.Errorf("boom")}
	sut := NewManager(readyCart(), gw, "GBP")

	_, err := sut.CreateIntent(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindUnknown, domain.KindOf(err))

	var cerr *domain.CategorizedError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, gw.createErr)
}

func TestCancelPayment(t *testing.T) {
	gw := &mockGateway{}
	cart := readyCart()
	sut := NewManager(cart, gw, "GBP")
	ctx := context.Background()

	err := sut.CancelPayment(ctx)
	require.ErrorIs(t, err, ErrNoActiveIntent)

	_, err = sut.CreateIntent(ctx)
	require.NoError(t, err)
	require.NoError(t, sut.CancelPayment(ctx))
	assert.Equal(t, domain.IntentStatusCancelled, sut.Intent().Status)
	assert.Equal(t, domain.IntentStatusCancelled, cart.lastStatus)
	assert.Equal(t, 1, gw.cancelCalls)

	// Cancelled is terminal.
	err = sut.CancelPayment(ctx)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRefundPayment(t *testing.T) {
	gw := &mockGateway{}
	sut := NewManager(readyCart(), gw, "GBP")
	ctx := context.Background()

	_, err := sut.CreateIntent(ctx)
	require.NoError(t, err)

	// Only a succeeded intent can be refunded.
	err = sut.RefundPayment(ctx)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = sut.ConfirmPayment(ctx, "pm_card")
	require.NoError(t, err)
	require.NoError(t, sut.RefundPayment(ctx))
	assert.Equal(t, domain.IntentStatusRefunded, sut.Intent().Status)
	assert.Equal(t, 1, gw.refundCalls)
}

func TestReconcileStatus(t *testing.T) {
	gw := &mockGateway{}
	sut := NewManager(readyCart(), gw, "GBP")
	ctx := context.Background()

	created, err := sut.CreateIntent(ctx)
	require.NoError(t, err)

	gw.retrieved = &IntentResult{IntentID: created.ID, Status: domain.IntentStatusSucceeded}
	intent, err := sut.ReconcileStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusSucceeded, intent.Status)

	// An illegal backwards move is ignored.
	gw.retrieved = &IntentResult{IntentID: created.ID, Status: domain.IntentStatusProcessing}
	intent, err = sut.ReconcileStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusSucceeded, intent.Status)
}
