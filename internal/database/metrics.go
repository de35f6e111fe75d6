package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueryDuration tracks query latency.
	// Labels: type (exec, query, query_row, begin_tx)
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "studyos",
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	// QueryTotal counts database operations.
	// Labels: type, result (success, error)
	QueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studyos",
			Subsystem: "database",
			Name:      "queries_total",
			Help:      "Total number of database operations",
		},
		[]string{"type", "result"},
	)

	// HealthStatusGauge is 1 when the last health check passed.
	HealthStatusGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "studyos",
			Subsystem: "database",
			Name:      "health_status",
			Help:      "Current database health (1=healthy, 0=unhealthy)",
		},
	)

	// OpenConnections mirrors sql.DBStats.OpenConnections.
	OpenConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "studyos",
			Subsystem: "database",
			Name:      "open_connections",
			Help:      "Number of established connections",
		},
	)
)

func recordQuery(op string, duration time.Duration, err error) {
	result := "success"
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		result = "error"
	}
	QueryDuration.WithLabelValues(op).Observe(duration.Seconds())
	QueryTotal.WithLabelValues(op, result).Inc()
}
