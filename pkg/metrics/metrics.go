package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bancod_queries_total",
			Help: "Total number of queries processed by type and outcome",
		},
		[]string{"query", "outcome"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bancod_query_duration_seconds",
			Help:    "Query execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	// Connection metrics
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bancod_active_connections",
			Help: "Number of client connections currently being served",
		},
	)

	ConnectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bancod_connections_total",
			Help: "Total number of accepted client connections",
		},
	)

	// Protocol metrics
	MalformedRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bancod_malformed_requests_total",
			Help: "Total number of requests rejected for bad framing",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(ActiveConnections)
	prometheus.MustRegister(ConnectionsTotal)
	prometheus.MustRegister(MalformedRequests)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer starts an HTTP server exposing /metrics on the
// given address. Returns immediately; the server runs until the process
// exits.
func StartMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		//nolint:errcheck // best-effort observability endpoint
		http.ListenAndServe(addr, mux)
	}()
}
