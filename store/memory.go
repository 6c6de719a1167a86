package store

import (
	"context"
	"sync"

	"food-whatsapp/models"
)

// Memory keeps everything in process memory. Used when no backend is
// configured and as the fake in flow tests.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]models.CustomerProfile
	carts    map[string][]models.CartItem
}

func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]models.CustomerProfile),
		carts:    make(map[string][]models.CartItem),
	}
}

func (m *Memory) Get(_ context.Context, clientID string) (models.CustomerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[clientID]
	if !ok || !p.Complete() {
		return models.CustomerProfile{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) Save(_ context.Context, clientID string, p models.CustomerProfile) error {
	if !p.Complete() {
		return ErrIncompleteProfile
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[clientID] = p
	return nil
}

func (m *Memory) Clear(_ context.Context, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, clientID)
	return nil
}

func (m *Memory) GetCart(_ context.Context, clientID string) ([]models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items, ok := m.carts[clientID]
	if !ok {
		return nil, nil
	}
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *Memory) SaveCart(_ context.Context, clientID string, items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]models.CartItem, len(items))
	copy(cp, items)
	m.carts[clientID] = cp
	return nil
}

func (m *Memory) ClearCart(_ context.Context, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, clientID)
	return nil
}
