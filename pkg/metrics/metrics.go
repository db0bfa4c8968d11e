// Package metrics provides the Prometheus registry and handler for the
// character table. All metrics are defined in their respective packages
// (graphql, cache, characters, view) and registered via promauto.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by all packages.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Request Metrics (pkg/graphql):
//   - graphql_requests_total{operation, status} (Counter): Requests by operation and HTTP status ("cached" for cache hits)
//   - graphql_request_duration_seconds{operation} (Histogram): Request duration by operation
//   - graphql_errors_total{class} (Counter): Errors by class (network, client, server, graphql, decode)
//
// Cache Metrics (pkg/cache):
//   - graphql_cache_hits_total{store} (Counter): Cache hits by store (memory, redis)
//   - graphql_cache_misses_total (Counter): Cache misses
//   - graphql_cache_errors_total{operation} (Counter): Cache operation errors
//
// Fetch Metrics (pkg/characters):
//   - character_fetches_total{result} (Counter): Fetches by result (succeeded, failed)
//
// View Metrics (pkg/view):
//   - character_view_renders_total{state} (Counter): Renders by state (loading, error, empty, populated)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(graphql_cache_hits_total[5m])) /
//   (sum(rate(graphql_cache_hits_total[5m])) + sum(rate(graphql_cache_misses_total[5m])))
//
//   # Error Render Ratio
//   rate(character_view_renders_total{state="error"}[5m]) / rate(character_view_renders_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(graphql_request_duration_seconds_bucket[5m]))
