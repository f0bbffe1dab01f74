package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by store backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gist_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"backend"}, // "memory", "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gist_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheStores tracks responses written to the cache
	CacheStores = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gist_cache_stores_total",
			Help: "Total number of responses written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gist_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
