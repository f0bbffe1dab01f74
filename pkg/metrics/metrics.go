// Package metrics provides the shared Prometheus registry for gistview.
// Metrics are defined in their respective packages (client, cache, ratelimit, server)
// to keep those packages self-contained; this package holds the registry
// they register against and a catalogue of what is exported.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registerer used by gistview.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler serving the Prometheus exposition format
// for everything registered against Registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Upstream Metrics (pkg/client):
//   - gist_upstream_requests_total{status} (Counter): GitHub requests by outcome (HTTP status or "network_error")
//   - gist_upstream_request_duration_seconds (Histogram): GitHub request latency
//   - gist_upstream_errors_total{class} (Counter): Upstream errors by class (network, client, server, decode)
//
// Rate Limit Metrics (pkg/ratelimit):
//   - gist_upstream_ratelimit_remaining (Gauge): Requests left in the current GitHub window
//   - gist_upstream_ratelimit_limit (Gauge): Size of the current GitHub window
//   - gist_upstream_ratelimit_low_total (Counter): Responses observed below the warning threshold
//
// Cache Metrics (pkg/cache):
//   - gist_cache_hits_total{backend} (Counter): Cache hits by store backend (memory, redis)
//   - gist_cache_misses_total (Counter): Cache misses
//   - gist_cache_stores_total (Counter): Responses written to the cache
//   - gist_cache_errors_total{operation} (Counter): Cache store errors
//
// HTTP Metrics (pkg/server):
//   - gist_http_requests_total{route,status} (Counter): Requests served by chi route pattern and status
//   - gist_http_request_duration_seconds{route} (Histogram): Request latency including upstream time on a miss
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(gist_cache_hits_total[5m])) /
//   (sum(rate(gist_cache_hits_total[5m])) + sum(rate(gist_cache_misses_total[5m])))
//
//   # Upstream Network Failures
//   rate(gist_upstream_errors_total{class="network"}[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(gist_upstream_request_duration_seconds_bucket[5m]))
