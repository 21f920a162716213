// Package metrics provides the Prometheus registry and HTTP handler for the
// bank transactions client. Metrics are defined in their respective packages
// (pagination, transport) to keep those packages self-contained.
//
// This package also documents every metric the client exports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer matching Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns an HTTP handler exposing all registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Pagination Metrics (pkg/pagination):
//   - bank_pagination_pages_total (Counter): Pages fetched and validated
//   - bank_pagination_transactions_total (Counter): Transactions returned to callers
//   - bank_pagination_fetches_total{outcome} (Counter): FetchTransactions calls by outcome
//     (last_page, cutoff_reached, malformed_truncated, or the failure kind)
//   - bank_pagination_fetch_duration_seconds (Histogram): Duration of complete fetches
//
// Transport Metrics (pkg/transport):
//   - bank_requests_total{status} (Counter): Requests by HTTP status (or network_error)
//   - bank_request_duration_seconds (Histogram): Request duration
//   - bank_transport_errors_total{class} (Counter): Transport errors by class (request, network, decode)
//
// Example Prometheus Queries:
//
//   # Truncated fetches
//   rate(bank_pagination_fetches_total{outcome="malformed_truncated"}[1h])
//
//   # Average pages per fetch
//   rate(bank_pagination_pages_total[5m]) / sum(rate(bank_pagination_fetches_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(bank_request_duration_seconds_bucket[5m]))
