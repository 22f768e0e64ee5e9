package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Client-side failures.
var (
	ErrInvalidConfig      = errors.New("invalid client configuration")
	ErrNoBaseURLs         = errors.New("no base URLs provided for console")
	ErrAllInstancesFailed = errors.New("all console instances failed")
	ErrNoReadyInstance    = errors.New("no ready instance found")
)

// Server answers. An *APIError unwraps to one of these.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("conflict with existing resource")
	ErrNoSelection      = errors.New("no cluster selected")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrGenerationFailed = errors.New("bundle generation failed")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrServerError      = errors.New("internal server error")
)

// APIError is a non-2xx answer decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	// Code is the machine-readable error code, e.g. "no_selection".
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code == "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.StatusCode, msg)
}

// Unwrap returns the sentinel matching the status and code, so callers can
// use errors.Is(err, ErrNoSelection) and friends.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict && e.Code == "no_selection":
		return ErrNoSelection
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode == http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case e.StatusCode == http.StatusUnprocessableEntity:
		return ErrGenerationFailed
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrServerError
	}
	return nil
}
