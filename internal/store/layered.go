package store

import "time"

// LayeredStore writes through to disk and keeps a memory layer for
// fast re-reads of recently saved plans.
type LayeredStore struct {
	memory *MemoryStore
	disk   *DiskStore
}

// NewLayeredStore creates a memory-over-disk store
func NewLayeredStore(dir string, memoryTTL time.Duration) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(memoryTTL),
		disk:   NewDiskStore(dir),
	}
}

// Save writes to both layers; the disk write is authoritative
func (s *LayeredStore) Save(key string, data []byte) error {
	if err := s.disk.Save(key, data); err != nil {
		return err
	}
	_ = s.memory.Save(key, data)
	return nil
}

// Load checks memory first, then disk, promoting disk hits
func (s *LayeredStore) Load(key string) ([]byte, error) {
	if data, err := s.memory.Load(key); err == nil {
		return data, nil
	}

	data, err := s.disk.Load(key)
	if err != nil {
		return nil, err
	}

	_ = s.memory.Save(key, data)
	return data, nil
}
