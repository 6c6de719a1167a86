package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-whatsapp/models"
)

type profileCartStore interface {
	ProfileStore
	CartStore
}

func testBackends(t *testing.T) map[string]profileCartStore {
	return map[string]profileCartStore{
		"memory": NewMemory(),
		"file":   NewFile(t.TempDir()),
	}
}

func completeProfile() models.CustomerProfile {
	last := time.Now().Add(-24 * time.Hour)
	return models.CustomerProfile{
		Name:      "Ana",
		Phone:     "11999999999",
		Address:   "Rua X, 10",
		LastOrder: &last,
	}
}

func TestProfileRoundTrip(t *testing.T) {
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := completeProfile()

			require.NoError(t, s.Save(ctx, "client-1", p))

			got, err := s.Get(ctx, "client-1")
			require.NoError(t, err)
			assert.Equal(t, p.Name, got.Name)
			assert.Equal(t, p.Phone, got.Phone)
			assert.Equal(t, p.Address, got.Address)
			require.NotNil(t, got.LastOrder)
			assert.WithinDuration(t, *p.LastOrder, *got.LastOrder, time.Second)
		})
	}
}

func TestSaveRejectsIncompleteProfile(t *testing.T) {
	incomplete := []models.CustomerProfile{
		{Phone: "11999999999", Address: "Rua X, 10"},
		{Name: "Ana", Address: "Rua X, 10"},
		{Name: "Ana", Phone: "11999999999"},
		{Name: "   ", Phone: "11999999999", Address: "Rua X, 10"},
	}
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, p := range incomplete {
				err := s.Save(ctx, "client-1", p)
				assert.ErrorIs(t, err, ErrIncompleteProfile)
			}
			_, err := s.Get(ctx, "client-1")
			assert.ErrorIs(t, err, ErrNotFound, "nothing should have been stored")
		})
	}
}

func TestClearProfile(t *testing.T) {
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, "client-1", completeProfile()))
			require.NoError(t, s.Clear(ctx, "client-1"))

			_, err := s.Get(ctx, "client-1")
			assert.ErrorIs(t, err, ErrNotFound)

			// Clearing an absent client is not an error.
			assert.NoError(t, s.Clear(ctx, "never-seen"))
		})
	}
}

func TestCartRoundTrip(t *testing.T) {
	items := []models.CartItem{
		{ID: "main-001", Name: "Feijoada", UnitPrice: decimal.RequireFromString("35.00"), Quantity: 2},
		{ID: "dessert-001", Name: "Tiramisù", UnitPrice: decimal.RequireFromString("15.90"), Quantity: 1, Observations: "sem cacau"},
	}
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := s.GetCart(ctx, "client-1")
			require.NoError(t, err)
			assert.Empty(t, got, "missing cart reads as empty")

			require.NoError(t, s.SaveCart(ctx, "client-1", items))
			got, err = s.GetCart(ctx, "client-1")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "Feijoada", got[0].Name)
			assert.True(t, got[0].UnitPrice.Equal(decimal.RequireFromString("35.00")))
			assert.Equal(t, "sem cacau", got[1].Observations)

			require.NoError(t, s.ClearCart(ctx, "client-1"))
			got, err = s.GetCart(ctx, "client-1")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewFile(dir)
	require.NoError(t, first.Save(ctx, "client-1", completeProfile()))

	second := NewFile(dir)
	got, err := second.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}
