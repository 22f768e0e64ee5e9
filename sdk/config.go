package sdk

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client defaults applied by ClientConfig.Validate.
const (
	DefaultRetryAttempts = 3
	DefaultRetryWaitMin  = time.Second
	DefaultRetryWaitMax  = 30 * time.Second
	DefaultTimeout       = 30 * time.Second
)

// ClientConfig configures a console client.
type ClientConfig struct {
	// BaseURLs lists the console instances, e.g. "http://console1:8080".
	// Instances share one database and the client fails over between them.
	BaseURLs []string

	// SessionID resumes a summary session. When empty the first summary
	// request obtains one from the server.
	SessionID string

	// HTTPClient overrides the pooled client built from Timeout.
	HTTPClient *http.Client

	// RetryAttempts bounds the retries of a failed request (default 3).
	RetryAttempts int

	// RetryWaitMin and RetryWaitMax bound the exponential backoff between
	// retries (defaults 1s and 30s).
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Timeout applies to the default HTTP client (default 30s).
	Timeout time.Duration
}

// Validate normalizes the configuration in place and fills in defaults.
// Every failure wraps ErrInvalidConfig.
func (c *ClientConfig) Validate() error {
	if len(c.BaseURLs) == 0 {
		return fmt.Errorf("%w: at least one base URL is required", ErrInvalidConfig)
	}
	for i, raw := range c.BaseURLs {
		normalized, err := normalizeBaseURL(raw)
		if err != nil {
			return fmt.Errorf("%w: base URL at index %d %v", ErrInvalidConfig, i, err)
		}
		c.BaseURLs[i] = normalized
	}

	c.SessionID = strings.TrimSpace(c.SessionID)

	switch {
	case c.RetryAttempts < 0:
		return fmt.Errorf("%w: retry attempts must not be negative", ErrInvalidConfig)
	case c.RetryAttempts == 0:
		c.RetryAttempts = DefaultRetryAttempts
	}

	c.RetryWaitMin = orDefault(c.RetryWaitMin, DefaultRetryWaitMin)
	c.RetryWaitMax = orDefault(c.RetryWaitMax, DefaultRetryWaitMax)
	if c.RetryWaitMax < c.RetryWaitMin {
		return fmt.Errorf("%w: retry_wait_max must not be below retry_wait_min", ErrInvalidConfig)
	}

	c.Timeout = orDefault(c.Timeout, DefaultTimeout)
	if c.HTTPClient == nil {
		c.HTTPClient = newHTTPClient(c.Timeout)
	}
	return nil
}

// normalizeBaseURL trims whitespace and trailing slashes and requires an
// absolute http or https URL.
func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", fmt.Errorf("is empty")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("is malformed: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("must start with http:// or https://")
	}
	if u.Host == "" {
		return "", fmt.Errorf("has no host")
	}
	return trimmed, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
