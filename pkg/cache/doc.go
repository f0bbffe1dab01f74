// Package cache provides the gistview response cache.
//
// Rendered listing pages are cached as complete HTTP responses (status,
// headers, body) for a single fixed TTL, five minutes by default. The key is
// the request path plus the normalized query string, so every distinct
// page/per_page combination is cached on its own. Entries do not vary by
// caller.
//
// Two backends implement Store:
//
//   - MemoryStore: process-local, backed by github.com/patrickmn/go-cache.
//     Created at startup and discarded with the process.
//   - RedisStore: shared between gateway instances via Redis.
//
// Expired entries are never served: the Manager checks the entry's Expires
// time on every read regardless of whether the backend already evicted it.
//
// # Basic Usage
//
//	manager := cache.NewManager(cache.NewMemoryStore(cache.DefaultCleanupInterval), cache.DefaultTTL)
//
//	router.With(cache.Middleware(manager, logger)).Get("/{user}", listHandler)
//
// # Direct Access
//
//	key := cache.CacheKey{
//		Endpoint:    "/octocat",
//		QueryParams: url.Values{"page": []string{"2"}, "per_page": []string{"5"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// render and store
//	}
//
// # Metrics
//
// The cache exports Prometheus metrics:
//
//   - gist_cache_hits_total{backend} - Cache hits
//   - gist_cache_misses_total - Cache misses
//   - gist_cache_stores_total - Responses written
//   - gist_cache_errors_total{operation} - Cache operation errors
package cache
