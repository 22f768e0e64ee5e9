package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DBQueryDuration measures database operations of the services.
	DBQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridcfg_db_query_duration_seconds",
		Help:    "Database operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(.0001, 4, 9),
	}, []string{"operation"})

	// DBQueriesTotal counts database operations by outcome.
	DBQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcfg_db_queries_total",
		Help: "Database operations by operation and status",
	}, []string{"operation", "status"})

	databaseCollectors = []prometheus.Collector{DBQueryDuration, DBQueriesTotal}
)

// ObserveQuery records the duration and outcome of a database operation.
//
//	start := time.Now()
//	err := ...
//	metrics.ObserveQuery("clusters_list", start, err)
func ObserveQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	DBQueriesTotal.WithLabelValues(operation, Status(err)).Inc()
}
