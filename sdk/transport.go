package sdk

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// retryable reports whether a response status is worth another attempt on
// the same instance.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests ||
		(status >= 500 && status != http.StatusNotImplemented)
}

// doRequestWithRetry sends req until it gets a final answer or runs out of
// attempts. Network errors, 5xx and 429 answers are retried with jittered
// exponential backoff; a 429 waits for its Retry-After instead when that is
// shorter than RetryWaitMax.
//
// A 429 that survives every attempt is returned as a response so the caller
// can report it. A 5xx that survives every attempt is an ErrServerError,
// which makes the caller fail over to the next instance.
func (c *Client) doRequestWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var (
		resp *http.Response
		err  error
	)

	for attempt := 0; ; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
			}
			req.Body = body
		}

		resp, err = c.HTTPClient.Do(req.WithContext(ctx))
		if err == nil && !retryable(resp.StatusCode) {
			return resp, nil
		}
		if attempt == c.RetryAttempts {
			break
		}

		wait := c.calculateBackoff(attempt)
		if err == nil {
			if after, ok := retryAfter(resp); ok && after < c.RetryWaitMax {
				wait = after
			}
			drainAndCloseBody(resp)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.RetryAttempts+1, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return resp, nil
	}

	drainAndCloseBody(resp)
	return nil, fmt.Errorf("%w: status code %d", ErrServerError, resp.StatusCode)
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// calculateBackoff returns a random wait in [0, min(RetryWaitMin*2^attempt, RetryWaitMax)).
func (c *Client) calculateBackoff(attempt int) time.Duration {
	ceiling := math.Min(
		float64(c.RetryWaitMin)*math.Pow(2, float64(attempt)),
		float64(c.RetryWaitMax),
	)
	return time.Duration(rand.Float64() * ceiling)
}

// drainAndCloseBody reads and closes the response body to ensure connection reuse.
func drainAndCloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
