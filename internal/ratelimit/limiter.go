// Package ratelimit provides keyed token bucket rate limiting for the HTTP API.
package ratelimit

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// LimitType represents the type of rate limit to apply.
type LimitType string

const (
	// LimitTypeIP limits all requests per client IP.
	LimitTypeIP LimitType = "ip"

	// LimitTypeSession limits summary requests per session.
	LimitTypeSession LimitType = "session"

	// LimitTypeExport limits bundle downloads per session or client.
	LimitTypeExport LimitType = "export"
)

// Rule is a token bucket refilled at PerSecond tokens per second holding at
// most Burst tokens. A non-positive PerSecond disables the limit.
type Rule struct {
	PerSecond float64
	Burst     int
}

// Config holds the rate limiting configuration.
type Config struct {
	// IP is the limit applied to every request per client IP.
	IP Rule

	// Session is the limit applied to summary requests per session.
	Session Rule

	// Export is the limit applied to bundle downloads.
	Export Rule

	// IdleTTL is how long an unused bucket is kept before cleanup.
	IdleTTL time.Duration
}

// DefaultConfig returns the default rate limiting configuration.
func DefaultConfig() Config {
	return Config{
		IP:      Rule{PerSecond: 100, Burst: 200},
		Session: Rule{PerSecond: 20, Burst: 40},
		Export:  Rule{PerSecond: 1, Burst: 5},
		IdleTTL: time.Hour,
	}
}

// Rule returns the rule of a limit type. Unknown types use the IP rule.
func (c Config) Rule(limitType LimitType) Rule {
	switch limitType {
	case LimitTypeSession:
		return c.Session
	case LimitTypeExport:
		return c.Export
	default:
		return c.IP
	}
}

// Limiter implements token bucket rate limiting with support for multiple limit types.
type Limiter struct {
	storage *Storage
	config  Config
	now     func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config Config) *Limiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultConfig().IdleTTL
	}
	return &Limiter{
		storage: NewStorage(config.IdleTTL),
		config:  config,
		now:     time.Now,
	}
}

// Allow checks if a request should be allowed based on the rate limit.
// It returns true if allowed, false if rate limited, and the number of seconds to wait.
func (l *Limiter) Allow(key string, limitType LimitType) (allowed bool, retryAfter int) {
	rule := l.config.Rule(limitType)
	if rule.PerSecond <= 0 {
		return true, 0
	}

	now := l.now()
	entry := l.storage.GetOrCreate(key, now, func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(rule.PerSecond), rule.Burst)
	})

	r := entry.Limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 1
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return true, 0
	}

	// Give the token back; the caller is rejected rather than delayed.
	r.CancelAt(now)

	retrySeconds := int(math.Ceil(delay.Seconds()))
	if retrySeconds < 1 {
		retrySeconds = 1
	}
	return false, retrySeconds
}

// Burst returns the bucket capacity of a limit type.
func (l *Limiter) Burst(limitType LimitType) int {
	return l.config.Rule(limitType).Burst
}

// Tracked returns the number of keys currently holding a bucket.
func (l *Limiter) Tracked() int {
	return l.storage.Count()
}

// BuildKey creates a rate limit key from identifier and limit type.
func BuildKey(identifier string, limitType LimitType) string {
	return fmt.Sprintf("%s:%s", limitType, identifier)
}

// Stop gracefully stops the limiter and cleans up resources.
func (l *Limiter) Stop() {
	l.storage.Stop()
}
