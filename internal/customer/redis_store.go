package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/fjod/go_ordering/internal/normalize"
	"github.com/redis/go-redis/v9"
)

const savedCustomerKey = "ordering:saved_customer"

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    90 * 24 * time.Hour,
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// GetSavedCustomer loads the remembered profile. The stored blob is kept
// in whatever field shape it was saved with and normalized on read, so a
// profile written by an older caller still comes back in canonical form.
func (r RedisStore) GetSavedCustomer(ctx context.Context) (*domain.Customer, error) {
	data, err := r.client.Get(ctx, savedCustomerKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSavedCustomer
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var raw map[string]any
	if err2 := json.Unmarshal(data, &raw); err2 != nil {
		return nil, fmt.Errorf("unmarshal saved customer failed: %w", err2)
	}

	c := normalize.Customer(raw)
	if c == nil {
		return nil, ErrNoSavedCustomer
	}
	return c, nil
}

func (r RedisStore) SaveCustomer(ctx context.Context, raw map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal saved customer failed: %w", err)
	}

	if err := r.client.Set(ctx, savedCustomerKey, string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, savedCustomerKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}
