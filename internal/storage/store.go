package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store is a key-value store keeping each key as an independent JSON file
// under the user config directory. Every Set rewrites the key's whole
// value; there is no batching.
type Store struct {
	dir string
}

// NewStore resolves the store directory for the application.
func NewStore(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return &Store{dir: filepath.Join(configDir, appName)}, nil
}

// NewStoreAt creates a store rooted at an explicit directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (store *Store) Dir() string {
	return store.dir
}

// Get reads a key into out. A missing key reads as absent without error;
// callers treat read failures as absent and continue with defaults.
func (store *Store) Get(key string, out any) (bool, error) {
	rawData, err := os.ReadFile(store.keyPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read key %s: %w", key, err)
	}
	if err := json.Unmarshal(rawData, out); err != nil {
		return false, fmt.Errorf("parse key %s: %w", key, err)
	}
	return true, nil
}

// Set writes a key's value durably via a temp file rename. Callers log and
// continue with in-memory state when this fails.
func (store *Store) Set(key string, value any) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	serialized, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key %s: %w", key, err)
	}

	path := store.keyPath(key)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("commit key %s: %w", key, err)
	}
	return nil
}

func (store *Store) keyPath(key string) string {
	return filepath.Join(store.dir, key+".json")
}
