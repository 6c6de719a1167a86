// Package store persists visitor data between orders: the saved delivery
// profile and the cart snapshot. It is the server-side counterpart of the
// site's localStorage entries, keyed by an opaque per-browser client id.
package store

import (
	"context"
	"errors"

	"food-whatsapp/models"
)

// StorageKey is the fixed namespace under which visitor data lives,
// carried over from the site's localStorage key.
const StorageKey = "labella_customer"

var (
	ErrNotFound          = errors.New("store: not found")
	ErrIncompleteProfile = errors.New("store: profile is missing required fields")
)

// ProfileStore holds one delivery profile per client. Save rejects
// profiles with empty name, phone or address; a stored record that is
// incomplete reads back as a miss.
type ProfileStore interface {
	Get(ctx context.Context, clientID string) (models.CustomerProfile, error)
	Save(ctx context.Context, clientID string, p models.CustomerProfile) error
	Clear(ctx context.Context, clientID string) error
}

// CartStore keeps a cart snapshot so a reload does not lose the order
// in progress.
type CartStore interface {
	GetCart(ctx context.Context, clientID string) ([]models.CartItem, error)
	SaveCart(ctx context.Context, clientID string, items []models.CartItem) error
	ClearCart(ctx context.Context, clientID string) error
}
