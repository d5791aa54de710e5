package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collection API Prometheus metrics.
var (
	CollectionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artguide",
			Name:      "collection_requests_total",
			Help:      "Total number of collection API requests",
		},
		[]string{"operation", "status"},
	)

	CollectionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artguide",
			Name:      "collection_request_duration_seconds",
			Help:      "Collection API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	CollectionResultsTotal = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "artguide",
			Name:      "collection_search_results",
			Help:      "Number of artworks returned per search after filtering",
			Buckets:   []float64{0, 1, 3, 5, 10, 15},
		},
	)
)

var collectionMetricsRegistered bool

// RegisterCollectionMetrics registers Prometheus collection API metrics. Must be called once from main.
func RegisterCollectionMetrics() {
	if collectionMetricsRegistered {
		return
	}
	prometheus.MustRegister(CollectionRequestsTotal)
	prometheus.MustRegister(CollectionRequestDuration)
	prometheus.MustRegister(CollectionResultsTotal)
	collectionMetricsRegistered = true
}
