package cache

import (
	"net/http"
	"net/url"
	"strings"
)

// CacheKey represents a unique identifier for a cached response.
type CacheKey struct {
	// Endpoint is the request path (e.g., "/octocat")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"page": "2", "per_page": "5"})
	QueryParams url.Values
}

// KeyFromRequest builds the cache key of an inbound request: its path plus
// the full, normalized query string.
func KeyFromRequest(r *http.Request) CacheKey {
	return CacheKey{
		Endpoint:    r.URL.Path,
		QueryParams: r.URL.Query(),
	}
}

// String generates a deterministic cache key string: the escaped path
// without its leading slash, then "?" and the query in url.Values.Encode
// form (keys sorted, repeated values in request order). The path is escaped
// with url.PathEscape, so it never contains "?" and distinct requests never
// share a key.
//
// Example:
//
//	gist:octocat?page=2&per_page=5
func (k CacheKey) String() string {
	key := "gist:" + url.PathEscape(strings.TrimPrefix(k.Endpoint, "/"))

	if query := k.QueryParams.Encode(); query != "" {
		key += "?" + query
	}

	return key
}
