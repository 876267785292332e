package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forum_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EntityOperations counts service-level operations by entity, operation and result.
	EntityOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_entity_operations_total",
		Help: "Total number of entity service operations",
	}, []string{"entity", "operation", "result"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}

// RecordOperation increments the entity operation counter. A nil error is
// recorded as "ok"; anything else as "error".
func RecordOperation(entity, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EntityOperations.WithLabelValues(entity, operation, result).Inc()
}
