package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often the memory store sweeps expired items.
const DefaultCleanupInterval = 10 * time.Minute

// MemoryStore is a process-local Store backed by go-cache.
// It lives for the lifetime of the process; nothing is persisted.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates a memory store whose janitor runs every
// cleanupInterval. A non-positive interval disables the janitor; expired
// items are then only dropped when read.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, found := s.items.Get(key)
	if !found {
		return nil, ErrCacheMiss
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, ErrInvalidEntry
	}
	return data, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	s.items.Set(key, data, ttl)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Name implements Store.
func (s *MemoryStore) Name() string {
	return "memory"
}

// Len returns the number of stored items, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

// Flush removes every item.
func (s *MemoryStore) Flush() {
	s.items.Flush()
}
