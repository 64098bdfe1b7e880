// Package metrics exposes the Prometheus instrumentation of techtrack:
// storage round-trips, store mutations, collection size per status,
// deadline counts and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Storage Metrics
	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techtrack_storage_operations_total",
			Help: "Total number of storage backend operations",
		},
		[]string{"driver", "operation", "result"}, // result: "ok", "miss", "error"
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "techtrack_storage_operation_duration_seconds",
			Help:    "Duration of storage backend operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	// Collection Metrics
	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techtrack_store_mutations_total",
			Help: "Total number of applied collection mutations",
		},
		[]string{"operation"},
	)

	Technologies = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "techtrack_technologies",
			Help: "Number of tracked technologies per status",
		},
		[]string{"status"},
	)

	Deadlines = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "techtrack_deadlines",
			Help: "Number of unfinished technologies per deadline state",
		},
		[]string{"state"}, // "overdue", "upcoming"
	)

	// HTTP Metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techtrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "techtrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordStorageOp records one backend call started at start.
func RecordStorageOp(driver, operation, result string, start time.Time) {
	StorageOperations.WithLabelValues(driver, operation, result).Inc()
	StorageDuration.WithLabelValues(driver, operation).Observe(time.Since(start).Seconds())
}

// RecordMutation counts an applied store mutation.
func RecordMutation(operation string) {
	StoreMutations.WithLabelValues(operation).Inc()
}

// SetStatusCounts publishes the collection size per status.
func SetStatusCounts(counts map[string]int) {
	for status, n := range counts {
		Technologies.WithLabelValues(status).Set(float64(n))
	}
}

// SetDeadlineCounts publishes the overdue and upcoming counts.
func SetDeadlineCounts(overdue, upcoming int) {
	Deadlines.WithLabelValues("overdue").Set(float64(overdue))
	Deadlines.WithLabelValues("upcoming").Set(float64(upcoming))
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
