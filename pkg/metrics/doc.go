/*
Package metrics provides Prometheus metrics for the bancod worker.

All metrics are package-level collectors registered in init(), following
the standard client_golang pattern. The worker exposes them on an
optional HTTP endpoint (--metrics-addr) at /metrics.

# Metrics

Request metrics:
  - bancod_queries_total{query,outcome}: processed queries; outcome is
    "success" or "error"
  - bancod_query_duration_seconds{query}: execution latency histogram

Connection metrics:
  - bancod_active_connections: connections currently being served
  - bancod_connections_total: accepted connections since start

Protocol metrics:
  - bancod_malformed_requests_total: requests rejected for bad framing

# Usage

	metrics.StartMetricsServer("127.0.0.1:9100")

	timer := metrics.NewTimer()
	// ... execute query ...
	timer.ObserveDurationVec(metrics.QueryDuration, "TRANSFERIR_CUENTA")
	metrics.QueriesTotal.WithLabelValues("TRANSFERIR_CUENTA", "success").Inc()
*/
package metrics
