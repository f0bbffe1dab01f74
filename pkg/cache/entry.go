package cache

import (
	"net/http"
	"time"
)

// CacheEntry represents a cached rendered response.
type CacheEntry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Headers are the response headers set by the handler
	Headers http.Header `json:"headers"`

	// CachedAt is when we cached this response
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the cache entry stops being served
	Expires time.Time `json:"expires"`
}

// NewEntry creates an entry cached now and expiring after ttl.
func NewEntry(statusCode int, headers http.Header, data []byte, ttl time.Duration) *CacheEntry {
	now := time.Now()
	return &CacheEntry{
		Data:       data,
		StatusCode: statusCode,
		Headers:    headers.Clone(),
		CachedAt:   now,
		Expires:    now.Add(ttl),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Age returns how long ago the entry was cached.
func (e *CacheEntry) Age() time.Duration {
	return time.Since(e.CachedAt)
}
