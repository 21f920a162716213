package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes that are not error kinds.
const (
	outcomeLastPage         = "last_page"
	outcomeCutoffReached    = "cutoff_reached"
	outcomeMalformedTrimmed = "malformed_truncated"
)

// Prometheus metrics for paginated fetches.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bank_pagination_pages_total",
		Help: "Total number of transaction pages fetched and validated",
	})

	transactionsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bank_pagination_transactions_total",
		Help: "Total number of transactions returned to callers",
	})

	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_pagination_fetches_total",
		Help: "Total FetchTransactions calls by outcome",
	}, []string{"outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bank_pagination_fetch_duration_seconds",
		Help:    "Duration of complete FetchTransactions calls",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})
)
