package cache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// HeaderCacheStatus reports whether a response came from the cache.
const HeaderCacheStatus = "X-Cache"

// Middleware caches complete GET responses of next, keyed by KeyFromRequest.
//
// A hit replays the stored status, headers and body without calling next.
// A miss runs next against a buffer, stores the result for the manager's TTL
// and writes it out. Concurrent misses for one key share a single run of
// next, which runs detached from the caller's cancellation. Store failures
// are logged and never fail the request.
func Middleware(m *Manager, logger zerolog.Logger) func(http.Handler) http.Handler {
	var group singleflight.Group

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := KeyFromRequest(r)
			cacheKey := key.String()

			entry, err := m.Get(ctx, key)
			if err == nil {
				logger.Debug().
					Str("cache_key", cacheKey).
					Dur("age", entry.Age()).
					Msg("Cache hit")
				WriteEntry(w, entry, "HIT")
				return
			}
			if !errors.Is(err, ErrCacheMiss) {
				logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("Cache get error")
			}

			v, _, shared := group.Do(cacheKey, func() (interface{}, error) {
				// The run is shared by every waiter on this key and its result is
				// cached, so it must not end when the first caller disconnects.
				// The upstream client timeout still bounds it.
				detached := context.WithoutCancel(ctx)

				rec := newBufferedResponse()
				next.ServeHTTP(rec, r.WithContext(detached))

				fresh := NewEntry(rec.status, rec.header, rec.body.Bytes(), m.TTL())

				if err := m.Set(detached, key, fresh); err != nil {
					logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("Failed to cache response")
				} else {
					logger.Debug().
						Str("cache_key", cacheKey).
						Int("status", fresh.StatusCode).
						Dur("ttl", m.TTL()).
						Msg("Cached response")
				}
				return fresh, nil
			})

			if shared {
				logger.Debug().Str("cache_key", cacheKey).Msg("Cache miss shared with concurrent request")
			}

			WriteEntry(w, v.(*CacheEntry), "MISS")
		})
	}
}

// WriteEntry writes a cached response to w, tagging it with status in the
// X-Cache header.
func WriteEntry(w http.ResponseWriter, entry *CacheEntry, status string) {
	h := w.Header()
	for key, values := range entry.Headers {
		h[key] = append([]string(nil), values...)
	}
	h.Set(HeaderCacheStatus, status)
	h.Set("Content-Length", strconv.Itoa(len(entry.Data)))

	w.WriteHeader(entry.StatusCode)
	_, _ = w.Write(entry.Data)
}

// bufferedResponse is an http.ResponseWriter that keeps the whole response
// in memory so it can be cached before it is sent.
type bufferedResponse struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.status = status
	b.wroteHeader = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}
