package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gridcfg.io/console/internal/metrics"
	"gridcfg.io/console/internal/ratelimit"
)

// RateLimiter applies keyed rate limits to requests and reports the
// outcome to Prometheus.
type RateLimiter struct {
	limiter *ratelimit.Limiter
}

// NewRateLimiter creates a rate limit middleware factory.
//
// Parameters:
//   - config: Per limit type rules
//
// Returns:
//   - Configured RateLimiter; call Stop when the server shuts down
func NewRateLimiter(config ratelimit.Config) *RateLimiter {
	rl := &RateLimiter{limiter: ratelimit.NewLimiter(config)}

	for _, t := range []ratelimit.LimitType{ratelimit.LimitTypeIP, ratelimit.LimitTypeSession, ratelimit.LimitTypeExport} {
		metrics.RateLimitBucketCapacity.WithLabelValues(string(t)).Set(float64(rl.limiter.Burst(t)))
	}

	return rl
}

// Stop releases the limiter's cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.limiter.Stop()
}

// ByIP creates middleware that rate limits requests by client IP address.
//
// This provides basic protection against abuse by limiting how many requests
// a single IP can make per second. Use this globally.
//
// Example:
//
//	router.Use(rl.ByIP())
func (rl *RateLimiter) ByIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.check(c, c.ClientIP(), ratelimit.LimitTypeIP)
	}
}

// BySession creates middleware that rate limits requests by session.
// Use this after Session; requests without a session fall back to the
// client IP.
func (rl *RateLimiter) BySession() gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.check(c, sessionOrIP(c), ratelimit.LimitTypeSession)
	}
}

// ForExports creates middleware that rate limits bundle downloads by
// session, or by client IP for requests without a session.
func (rl *RateLimiter) ForExports() gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.check(c, sessionOrIP(c), ratelimit.LimitTypeExport)
	}
}

func sessionOrIP(c *gin.Context) string {
	if id := GetSessionID(c); id != "" {
		return id
	}
	return c.ClientIP()
}

func (rl *RateLimiter) check(c *gin.Context, identifier string, limitType ratelimit.LimitType) {
	allowed, retryAfter := rl.limiter.Allow(ratelimit.BuildKey(identifier, limitType), limitType)

	metrics.RateLimitChecks.WithLabelValues(string(limitType), strconv.FormatBool(allowed)).Inc()
	metrics.RateLimitTrackedClients.WithLabelValues(string(limitType)).Set(float64(rl.limiter.Tracked()))

	if !allowed {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate_limit_exceeded",
			"message":     "Rate limit exceeded",
			"request_id":  GetRequestID(c),
			"retry_after": retryAfter,
		})
		return
	}

	c.Next()
}
