// Package handlers holds the gin handlers of the gridcfg REST API: health
// probes, the cluster catalogue, the per-session summary, bundle downloads
// and export history.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gridcfg.io/console/internal/api/middleware"
	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
)

// MaxRequestBodySize caps JSON and catalogue request bodies (1 MiB).
const MaxRequestBodySize = 1 << 20

// respondError aborts with a models.ErrorResponse body.
//
// Parameters:
//   - c: Gin context
//   - statusCode: HTTP status code
//   - errorCode: Error code string (e.g., "not_found")
//   - message: Human-readable error message
func respondError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// errorMapping ties a sentinel error to its HTTP status and error code.
// Message overrides the error text; server-side details never reach the
// client.
type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{err: models.ErrClusterNotFound, status: http.StatusNotFound, code: "not_found"},
	{err: models.ErrNotFound, status: http.StatusNotFound, code: "not_found"},
	{err: models.ErrNoSelection, status: http.StatusConflict, code: "no_selection", message: "No cluster is selected"},
	{err: models.ErrDuplicateName, status: http.StatusConflict, code: "conflict"},
	{err: models.ErrInvalidTab, status: http.StatusBadRequest, code: "invalid_tab"},
	{err: models.ErrInvalidCluster, status: http.StatusBadRequest, code: "invalid_cluster"},
	{err: models.ErrInvalidRequest, status: http.StatusBadRequest, code: "invalid_request"},
	{err: models.ErrPayloadTooLarge, status: http.StatusRequestEntityTooLarge, code: "payload_too_large", message: "Payload exceeds size limit"},
	{err: bundle.ErrBundleTooLarge, status: http.StatusRequestEntityTooLarge, code: "payload_too_large", message: "Payload exceeds size limit"},
	{err: bundle.ErrDuplicatePath, status: http.StatusUnprocessableEntity, code: "duplicate_path"},
	{err: models.ErrGeneration, status: http.StatusUnprocessableEntity, code: "generation_failed"},
	{err: models.ErrRateLimitExceeded, status: http.StatusTooManyRequests, code: "rate_limit_exceeded", message: "Rate limit exceeded"},
}

// mapErrorToResponse answers with the first errorMappings entry matching
// err. Anything unmapped is logged and answered with a generic 500.
//
// Parameters:
//   - c: Gin context
//   - err: Error from the service layer
func mapErrorToResponse(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		respondError(c, m.status, m.code, message)
		return
	}

	logging.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, "internal_error", "An internal error occurred")
}

// bindJSON decodes a size-limited JSON body into v. With allowEmpty an
// empty body leaves v untouched.
func bindJSON(c *gin.Context, v any, allowEmpty bool) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBodySize)

	if err := c.ShouldBindJSON(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return models.ErrPayloadTooLarge
		case allowEmpty && errors.Is(err, io.EOF):
			return nil
		default:
			return fmt.Errorf("%w: %w", models.ErrInvalidRequest, err)
		}
	}
	return nil
}
