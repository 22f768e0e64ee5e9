// Package logging builds the zap loggers of the gridcfg server and CLI and
// carries request-scoped loggers through contexts.
package logging

// Field names shared by every log entry, so that entries from the API,
// the services and the CLI can be joined on them.
const (
	// Domain.
	FieldCluster   = "cluster"
	FieldSessionID = "session_id"
	FieldFileName  = "file_name"
	FieldEntries   = "entries"
	FieldSizeBytes = "size_bytes"

	// HTTP.
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldRemoteAddr = "remote_addr"
	FieldUserAgent  = "user_agent"

	FieldDuration = "duration"
	FieldError    = "error"
)
