package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Sync runs by final status.",
		},
		[]string{"status"},
	)
	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_run_duration_seconds",
			Help:    "Wall time of sync runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
	productsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_products_total",
			Help: "Products handled by the reconciler, by outcome.",
		},
		[]string{"outcome"},
	)
	categorizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sync_categorized_total",
			Help: "Products assigned a category by the classifier.",
		},
	)
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_upstream_requests_total",
			Help: "Upstream catalog requests by status class.",
		},
		[]string{"status"},
	)
	upstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_upstream_request_duration_seconds",
			Help:    "Latency of upstream catalog requests.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		runsTotal,
		runDuration,
		productsTotal,
		categorizedTotal,
		upstreamRequests,
		upstreamDuration,
		httpRequestsTotal,
	)
}

func RecordRun(status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(duration.Seconds())
}

// RecordProduct counts one reconciled product. outcome is created, updated or failed.
func RecordProduct(outcome string) {
	productsTotal.WithLabelValues(outcome).Inc()
}

func RecordCategorized(n int) {
	categorizedTotal.Add(float64(n))
}

// RecordUpstream records one upstream request. statusCode 0 means no response.
func RecordUpstream(statusCode int, duration time.Duration) {
	upstreamRequests.WithLabelValues(classifyStatus(statusCode)).Inc()
	upstreamDuration.Observe(duration.Seconds())
}

func RecordRequest(method, endpoint string, statusCode int) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	case statusCode == 0:
		return "error"
	}
	return "unknown"
}

func Handler() http.Handler {
	return promhttp.Handler()
}
