// Package metrics defines Prometheus metrics for tradelens.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradelens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradelens_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradelens_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradelens_ws_connections",
			Help: "Active WebSocket connections",
		},
	)

	DocumentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradelens_document_saves_total",
			Help: "Documents stored, by dataset kind",
		},
		[]string{"kind"},
	)

	DocumentBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tradelens_document_bytes",
			Help: "Size of the last stored document, by dataset kind",
		},
		[]string{"kind"},
	)

	TierFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradelens_tier_fallbacks_total",
			Help: "Snapshot loads that were not served by the server tier",
		},
		[]string{"kind", "source"},
	)

	ServerTierFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradelens_server_tier_failures_total",
			Help: "Server tier writes that failed after retries",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		WSConnections, DocumentSaves, DocumentBytes,
		TierFallbacks, ServerTierFailures,
	)
}
