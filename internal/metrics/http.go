package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HTTPRequestsTotal counts requests by method, route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcfg_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration measures request latency by route.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridcfg_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})

	// HTTPResponseSize measures response bodies. Summary JSON sits in the
	// low buckets, bundle archives in the high ones.
	HTTPResponseSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridcfg_http_response_size_bytes",
		Help:    "HTTP response size in bytes",
		Buckets: prometheus.ExponentialBuckets(256, 4, 9),
	}, []string{"method", "path"})

	// HTTPRequestsInFlight is the number of requests being served.
	HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gridcfg_http_requests_in_flight",
		Help: "HTTP requests currently being served",
	})

	// BundleDownloads counts bundle download responses by outcome
	// ("sent" or "not_modified").
	BundleDownloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcfg_bundle_downloads_total",
		Help: "Bundle download responses by outcome",
	}, []string{"outcome"})

	httpCollectors = []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPResponseSize,
		HTTPRequestsInFlight,
		BundleDownloads,
	}
)
