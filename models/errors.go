package models

import "errors"

// Sentinel errors shared by the service, API and SDK layers. The API maps
// each one to a status code and an error code (see ErrorResponse).
var (
	// 404
	ErrNotFound        = errors.New("resource not found")
	ErrClusterNotFound = errors.New("cluster not found")

	// 409
	ErrNoSelection   = errors.New("no cluster selected")
	ErrDuplicateName = errors.New("cluster with this name already exists")

	// 400
	ErrInvalidTab     = errors.New("invalid tab")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidCluster = errors.New("invalid cluster definition")

	// ErrGeneration wraps generator failures on otherwise valid cluster
	// data (422).
	ErrGeneration = errors.New("artifact generation failed")

	ErrPayloadTooLarge   = errors.New("payload too large")   // 413
	ErrRateLimitExceeded = errors.New("rate limit exceeded") // 429
	ErrDatabaseError     = errors.New("database error")      // 500
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	// Error is a stable machine-readable code such as "not_found".
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by /health/live and /health/ready.
type HealthResponse struct {
	// Status is "ok" for liveness and "ready" for readiness.
	Status     string `json:"status"`
	InstanceID string `json:"instance_id"`

	// Readiness only.
	Database string `json:"database,omitempty"`
	Clusters int    `json:"clusters,omitempty"`
	Uptime   string `json:"uptime,omitempty"`
}
