// Package metrics provides Prometheus metrics for the gridcfg server.
//
// Collectors are package variables so that services can record without
// carrying a registry around; Init registers them with Registry.
package metrics

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	mu         sync.Mutex
	registered *prometheus.Registry
)

// Init registers the runtime, process and gridcfg collectors with Registry.
// Calling it again for the same Registry is a no-op; after Registry has been
// replaced it registers everything with the new one.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if registered == Registry {
		return nil
	}

	groups := [][]prometheus.Collector{
		{collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})},
		httpCollectors,
		rateLimitCollectors,
		databaseCollectors,
		exportCollectors,
		summaryCollectors,
	}
	for _, group := range groups {
		for _, c := range group {
			if err := Registry.Register(c); err != nil {
				return fmt.Errorf("failed to register collector: %w", err)
			}
		}
	}

	registered = Registry
	return nil
}

// MustInit is Init for startup paths where metrics are required.
func MustInit() {
	if err := Init(); err != nil {
		panic(err)
	}
}

// RegisterDB exports the connection pool statistics of db.
func RegisterDB(db *sql.DB) error {
	return Registry.Register(collectors.NewDBStatsCollector(db, "gridcfg"))
}

var (
	// ClusterCount is the number of clusters in the catalogue as of the
	// last listing.
	ClusterCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gridcfg_clusters",
		Help: "Number of clusters in the catalogue",
	})

	// SummaryOperations counts summary operations (select, set_tab,
	// export) by outcome.
	SummaryOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcfg_summary_operations_total",
		Help: "Summary operations by operation and status",
	}, []string{"operation", "status"})

	summaryCollectors = []prometheus.Collector{ClusterCount, SummaryOperations}
)

// Status returns the status label value of an operation result.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
