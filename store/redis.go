package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"food-whatsapp/models"
)

// Profiles expire together with the 30-day returning-customer window;
// an expired record would read back as "new customer" anyway.
const (
	profileTTL = 30 * 24 * time.Hour
	cartTTL    = 7 * 24 * time.Hour
)

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func profileKey(clientID string) string {
	return fmt.Sprintf("%s:profile:%s", StorageKey, clientID)
}

func cartKey(clientID string) string {
	return fmt.Sprintf("%s:cart:%s", StorageKey, clientID)
}

func (r *Redis) Get(ctx context.Context, clientID string) (models.CustomerProfile, error) {
	raw, err := r.client.Get(ctx, profileKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.CustomerProfile{}, ErrNotFound
	}
	if err != nil {
		return models.CustomerProfile{}, fmt.Errorf("redis get profile: %w", err)
	}
	var p models.CustomerProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.CustomerProfile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	if !p.Complete() {
		return models.CustomerProfile{}, ErrNotFound
	}
	return p, nil
}

func (r *Redis) Save(ctx context.Context, clientID string, p models.CustomerProfile) error {
	if !p.Complete() {
		return ErrIncompleteProfile
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.client.Set(ctx, profileKey(clientID), raw, profileTTL).Err(); err != nil {
		return fmt.Errorf("redis set profile: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, clientID string) error {
	if err := r.client.Del(ctx, profileKey(clientID)).Err(); err != nil {
		return fmt.Errorf("redis del profile: %w", err)
	}
	return nil
}

func (r *Redis) GetCart(ctx context.Context, clientID string) ([]models.CartItem, error) {
	raw, err := r.client.Get(ctx, cartKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

func (r *Redis) SaveCart(ctx context.Context, clientID string, items []models.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(clientID), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *Redis) ClearCart(ctx context.Context, clientID string) error {
	if err := r.client.Del(ctx, cartKey(clientID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
