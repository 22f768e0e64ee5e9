package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gridcfg.io/console/internal/metrics"
)

// unmatchedRoute labels requests that hit no route, keeping the path label
// bounded.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request counts, latency, response size and
// in-flight requests, labelled by route template rather than raw path.
// Bundle downloads are additionally counted as sent or not modified.
//
// Returns:
//   - Gin middleware handler function
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()
		elapsed := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		status := c.Writer.Status()

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed)
		if size := c.Writer.Size(); size >= 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
		}

		if c.Writer.Header().Get("ETag") == "" {
			return
		}
		switch status {
		case http.StatusOK:
			metrics.BundleDownloads.WithLabelValues("sent").Inc()
		case http.StatusNotModified:
			metrics.BundleDownloads.WithLabelValues("not_modified").Inc()
		}
	}
}
