package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_ordering/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *mongoRepository) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"cart_id": cartID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()

	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"cart_id": cart.CartID}
	update := bson.M{"$set": cart}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

func (m *mongoRepository) AddItem(ctx context.Context, cartID string, item domain.CartItem) error {
	now := time.Now()
	filter := bson.M{"cart_id": cartID}

	var existing domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&existing)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			cart := &domain.Cart{
				CartID:    cartID,
				Items:     []domain.CartItem{item},
				CreatedAt: now,
				UpdatedAt: now,
			}

			_, err = m.collection.InsertOne(ctx, cart)
			if err != nil {
				return fmt.Errorf("failed to create cart with item: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to check existing cart: %w", err)
	}

	itemExists := false
	for _, existingItem := range existing.Items {
		if existingItem.ID == item.ID {
			itemExists = true
			break
		}
	}

	if itemExists {
		update := bson.M{
			"$set": bson.M{
				"items.$[elem]": item,
				"updated_at":    now,
			},
		}
		arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"elem.item_id": item.ID},
			},
		})

		_, err = m.collection.UpdateOne(ctx, filter, update, arrayFilters)
		if err != nil {
			return fmt.Errorf("failed to update existing item: %w", err)
		}
	} else {
		update := bson.M{
			"$push": bson.M{"items": item},
			"$set":  bson.M{"updated_at": now},
		}

		_, err = m.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to add new item: %w", err)
		}
	}

	return nil
}

func (m *mongoRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	filter := bson.M{
		"cart_id":       cartID,
		"items.item_id": itemID,
	}

	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": quantity,
			"updated_at":             time.Now(),
		},
	}

	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.item_id": itemID},
		},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoRepository) SetItemConfiguration(ctx context.Context, cartID, itemID string, config map[string]any) error {
	filter := bson.M{
		"cart_id":       cartID,
		"items.item_id": itemID,
	}

	update := bson.M{
		"$set": bson.M{
			"items.$[elem].configuration": config,
			"updated_at":                  time.Now(),
		},
	}

	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.item_id": itemID},
		},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to set item configuration: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

// RemoveItem pulls the item from the cart; its embedded configuration
// goes with it in the same round trip, so no orphaned configuration can
// survive a removal.
func (m *mongoRepository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	filter := bson.M{"cart_id": cartID}
	update := bson.M{
		"$pull": bson.M{
			"items": bson.M{"item_id": itemID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoRepository) DeleteCart(ctx context.Context, cartID string) error {
	filter := bson.M{"cart_id": cartID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cart_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
