package repository

import (
	"context"
	"testing"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)

	mongoRepo := repo.(*mongoRepository)
	err = mongoRepo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestMongoGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetCart(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestMongoAddItem_CreatesAndUpdates(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	item := domain.CartItem{ID: "i-1", Title: "CSCS Card", Type: domain.ItemTypeCard, Price: 36, Quantity: 1}
	require.NoError(t, repo.AddItem(ctx, "cart-1", item))

	cart, err := repo.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "CSCS Card", cart.Items[0].Title)

	// Same id replaces rather than duplicating.
	item.Quantity = 3
	require.NoError(t, repo.AddItem(ctx, "cart-1", item))
	cart, err = repo.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestMongoRemoveItem_DropsConfiguration(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	item := domain.CartItem{ID: "i-1", Title: "Theory Test", Type: domain.ItemTypeTest, Price: 23, Quantity: 1}
	require.NoError(t, repo.AddItem(ctx, "cart-1", item))
	require.NoError(t, repo.SetItemConfiguration(ctx, "cart-1", "i-1", map[string]any{
		"testDetails": map[string]any{"testDate": "2025-01-01"},
	}))

	require.NoError(t, repo.RemoveItem(ctx, "cart-1", "i-1"))

	cart, err := repo.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMongoUpdateItemQuantity_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateItemQuantity(context.Background(), "cart-1", "missing", 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
