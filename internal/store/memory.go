package store

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore holds artifacts in memory with a TTL. Used standalone in
// tests and as the fast layer of LayeredStore.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store; ttl 0 means entries never expire
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryStore{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Save stores the artifact under key
func (s *MemoryStore) Save(key string, data []byte) error {
	s.cache.Set(key, data, gocache.DefaultExpiration)
	return nil
}

// Load retrieves an artifact by key
func (s *MemoryStore) Load(key string) ([]byte, error) {
	if val, found := s.cache.Get(key); found {
		return val.([]byte), nil
	}
	return nil, fmt.Errorf("artifact not found: %s", key)
}
