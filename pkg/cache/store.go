package cache

import (
	"context"
	"time"
)

// Store is a key/value backend for serialized cache entries.
// Implementations must be safe for concurrent use and return ErrCacheMiss
// for absent keys.
type Store interface {
	// Get returns the stored bytes for key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in metrics and logs.
	Name() string
}
