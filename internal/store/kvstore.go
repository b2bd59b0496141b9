package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fixed persistence keys. The dataset blob is versioned by key name: a
// format change means a new key, not a migration.
const (
	DatasetKey = "kyc_dataset_v1"
	ThemeKey   = "kyc_theme"
)

// KVStore is a minimal file-backed key-value store: one file per key under a
// base directory. Writes go through a temp file and rename so a crash can
// never leave a half-written blob behind.
type KVStore struct {
	dir string
}

// NewKVStore creates a store rooted at dir, creating it if needed.
func NewKVStore(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &KVStore{dir: dir}, nil
}

// Get returns the blob stored under key; ok is false when the key is absent.
func (s *KVStore) Get(key string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, true, nil
}

// Put overwrites the blob stored under key.
func (s *KVStore) Put(key string, data []byte) error {
	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob stored under key; deleting an absent key is a no-op.
func (s *KVStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
