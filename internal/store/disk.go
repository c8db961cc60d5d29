package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore persists artifacts as files under a base directory
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk-backed store rooted at dir
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Save writes the artifact, creating the directory on first use
func (s *DiskStore) Save(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	return nil
}

// Load reads an artifact by key
func (s *DiskStore) Load(key string) ([]byte, error) {
	path := filepath.Join(s.dir, key)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", key)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	return data, nil
}
