package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"food-whatsapp/db"
	"food-whatsapp/models"
)

// Postgres keeps visitor data in two jsonb tables, for setups where the
// site runs on more than one host and a shared file will not do.
type Postgres struct{}

func NewPostgres() *Postgres {
	return &Postgres{}
}

func (s *Postgres) Get(ctx context.Context, clientID string) (models.CustomerProfile, error) {
	var raw []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT profile FROM customer_profiles WHERE client_id = $1`,
		clientID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CustomerProfile{}, ErrNotFound
	}
	if err != nil {
		return models.CustomerProfile{}, fmt.Errorf("select profile: %w", err)
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

func (s *Postgres) Save(ctx context.Context, clientID string, p models.CustomerProfile) error {
	if !p.Complete() {
		return ErrIncompleteProfile
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO customer_profiles (client_id, profile, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (client_id) DO UPDATE SET
			profile = $2::jsonb,
			updated_at = now()`,
		clientID, raw,
	)
	return err
}

func (s *Postgres) Clear(ctx context.Context, clientID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM customer_profiles WHERE client_id = $1`, clientID)
	return err
}

func (s *Postgres) GetCart(ctx context.Context, clientID string) ([]models.CartItem, error) {
	var raw []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT items FROM carts WHERE client_id = $1`,
		clientID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}
	var items []models.CartItem
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("unmarshal cart: %w", err)
		}
	}
	return items, nil
}

func (s *Postgres) SaveCart(ctx context.Context, clientID string, items []models.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO carts (client_id, items, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (client_id) DO UPDATE SET
			items = $2::jsonb,
			updated_at = now()`,
		clientID, raw,
	)
	return err
}

func (s *Postgres) ClearCart(ctx context.Context, clientID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM carts WHERE client_id = $1`, clientID)
	return err
}
