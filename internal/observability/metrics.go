// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealslan_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// QueryLatency records store operation latency by operation name.
	QueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mealslan_store_operation_latency_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// SearchQueries counts ranking queries by mode (feed, popular, ingredients).
	SearchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealslan_search_queries_total",
		Help: "Total ranking queries served, by mode",
	}, []string{"mode"})

	// AuthFailures counts rejected token verifications and login attempts.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealslan_auth_failures_total",
		Help: "Total authentication failures, by kind",
	}, []string{"kind"})

	// CascadeDeletes counts completed account cascade deletions.
	CascadeDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealslan_account_cascade_deletes_total",
		Help: "Total completed account cascade deletions",
	})
)

// ObserveQuery records the latency of a store operation.
func ObserveQuery(operation string, start time.Time) {
	QueryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
