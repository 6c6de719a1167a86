package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"food-whatsapp/models"
)

// File persists visitor data as a single JSON file, the closest analog
// of the browser's localStorage. Every write rewrites the whole file;
// the data set is one record per returning visitor, so that is fine.
type File struct {
	mu   sync.Mutex
	path string
}

type fileData struct {
	Profiles map[string]models.CustomerProfile `json:"profiles"`
	Carts    map[string][]models.CartItem      `json:"carts"`
}

func NewFile(dir string) *File {
	return &File{path: filepath.Join(dir, StorageKey+".json")}
}

func (f *File) load() (fileData, error) {
	data := fileData{
		Profiles: map[string]models.CustomerProfile{},
		Carts:    map[string][]models.CartItem{},
	}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, fmt.Errorf("read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if data.Profiles == nil {
		data.Profiles = map[string]models.CustomerProfile{}
	}
	if data.Carts == nil {
		data.Carts = map[string][]models.CartItem{}
	}
	return data, nil
}

func (f *File) save(data fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path)
}

func (f *File) Get(_ context.Context, clientID string) (models.CustomerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return models.CustomerProfile{}, err
	}
	p, ok := data.Profiles[clientID]
	if !ok || !p.Complete() {
		return models.CustomerProfile{}, ErrNotFound
	}
	return p, nil
}

func (f *File) Save(_ context.Context, clientID string, p models.CustomerProfile) error {
	if !p.Complete() {
		return ErrIncompleteProfile
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	data.Profiles[clientID] = p
	return f.save(data)
}

func (f *File) Clear(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	delete(data.Profiles, clientID)
	return f.save(data)
}

func (f *File) GetCart(_ context.Context, clientID string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return nil, err
	}
	return data.Carts[clientID], nil
}

func (f *File) SaveCart(_ context.Context, clientID string, items []models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	data.Carts[clientID] = items
	return f.save(data)
}

func (f *File) ClearCart(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	delete(data.Carts, clientID)
	return f.save(data)
}
