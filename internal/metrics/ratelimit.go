package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RateLimitChecks counts limiter decisions by limit type.
	RateLimitChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcfg_ratelimit_checks_total",
		Help: "Rate limit decisions by limit type and outcome",
	}, []string{"limit_type", "allowed"})

	// RateLimitTrackedClients is the number of keys (IPs or sessions)
	// currently holding a token bucket.
	RateLimitTrackedClients = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gridcfg_ratelimit_tracked_clients",
		Help: "Keys currently holding a token bucket",
	}, []string{"limit_type"})

	// RateLimitBucketCapacity is the configured burst of each limit type.
	RateLimitBucketCapacity = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gridcfg_ratelimit_bucket_capacity",
		Help: "Configured burst per limit type",
	}, []string{"limit_type"})

	rateLimitCollectors = []prometheus.Collector{
		RateLimitChecks,
		RateLimitTrackedClients,
		RateLimitBucketCapacity,
	}
)
