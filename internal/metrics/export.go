package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ExportsTotal counts bundle exports by outcome.
	ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcfg_exports_total",
		Help: "Configuration bundle exports by status",
	}, []string{"status"})

	// ExportsShared counts export requests that joined an identical export
	// already in flight.
	ExportsShared = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gridcfg_exports_shared_total",
		Help: "Export requests served by a concurrent identical export",
	})

	// ExportDuration measures building and serializing one bundle.
	ExportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridcfg_export_duration_seconds",
		Help:    "Bundle build and serialization duration in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	// ExportSize measures serialized bundles, up to the bundle size limit.
	ExportSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridcfg_export_size_bytes",
		Help:    "Serialized bundle size in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})

	// ExportEntries measures the number of files per bundle. A bundle has
	// at least eleven fixed entries plus one or two per POJO type.
	ExportEntries = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridcfg_export_entries",
		Help:    "Number of files per bundle",
		Buckets: prometheus.LinearBuckets(11, 10, 10),
	})

	exportCollectors = []prometheus.Collector{
		ExportsTotal,
		ExportsShared,
		ExportDuration,
		ExportSize,
		ExportEntries,
	}
)
