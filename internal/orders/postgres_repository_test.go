package orders

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		Amount:     46,
		CustomerID: "cust-1",
		Status:     domain.OrderStatusPending,
		Items: []domain.CartItem{
			{ID: "i-1", Title: "Theory Test", Type: domain.ItemTypeTest, Price: 23, Quantity: 2},
		},
		Customer: &domain.Customer{FirstName: "Jo", LastName: "Bloggs", Email: "jo@example.com"},
	}
}

func TestCreateOrder_AssignsIDAndReference(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateOrder(context.Background(), sampleOrder())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.OrderReference, "ORD-")

	fetched, err := repo.GetOrderByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderReference, fetched.OrderReference)
	assert.Equal(t, 46.0, fetched.Amount)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, domain.ItemTypeTest, fetched.Items[0].Type)
	require.NotNil(t, fetched.Customer)
	assert.Equal(t, "jo@example.com", fetched.Customer.Email)
}

func TestCreateOrder_DuplicateReference(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	order := sampleOrder()
	order.OrderReference = "ORD-FIXED"
	_, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	second := sampleOrder()
	second.OrderReference = "ORD-FIXED"
	_, err = repo.CreateOrder(context.Background(), second)
	assert.ErrorIs(t, err, ErrDuplicateReference)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrderByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMarkPaid(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	created, err := repo.CreateOrder(ctx, sampleOrder())
	require.NoError(t, err)

	require.NoError(t, repo.MarkPaid(ctx, created.ID, domain.PaymentStatusSucceeded))

	fetched, err := repo.GetOrderByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, fetched.Status)
	assert.Equal(t, domain.PaymentStatusSucceeded, fetched.PaymentStatus)

	// Already paid, nothing left to flip.
	err = repo.MarkPaid(ctx, created.ID, domain.PaymentStatusSucceeded)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersByCustomerID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := repo.CreateOrder(ctx, sampleOrder())
		require.NoError(t, err)
	}

	result, err := repo.ListOrdersByCustomerID(ctx, "cust-1")
	require.NoError(t, err)
	assert.Len(t, result, 3)

	empty, err := repo.ListOrdersByCustomerID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
