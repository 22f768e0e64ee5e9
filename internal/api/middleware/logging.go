// Package middleware holds the gin middleware of the gridcfg REST API:
// session binding, rate limiting, request logging, metrics and CORS.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gridcfg.io/console/internal/logging"
)

// Context keys shared by the middleware and the handlers.
const (
	ContextKeyRequestID = "request_id"
	ContextKeySessionID = "session_id"
	ContextKeyLogger    = "logger"

	// HeaderRequestID carries the request ID in both directions. A caller
	// supplied UUID is kept so that SDK retries can be correlated.
	HeaderRequestID = "X-Request-Id"
)

// RequestLogger attaches a request-scoped logger to the gin and request
// contexts and logs one completion entry per request.
//
// The completion level follows the status class: Info below 400, Warn for
// 4xx and Error for 5xx. Session routes bind the session ID after this
// middleware runs, so it is read back from the gin context on completion.
//
// Parameters:
//   - logger: Base logger
//
// Returns:
//   - Gin middleware handler function
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDOf(c)

		reqLogger := logger.With(
			zap.String(logging.FieldRequestID, requestID),
			zap.String(logging.FieldMethod, c.Request.Method),
			zap.String(logging.FieldPath, c.Request.URL.Path),
			zap.String(logging.FieldRemoteAddr, c.ClientIP()),
			zap.String(logging.FieldUserAgent, c.Request.UserAgent()),
		)

		c.Set(ContextKeyLogger, reqLogger)
		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		level, msg := completion(status)
		ce := reqLogger.Check(level, msg)
		if ce == nil {
			return
		}

		elapsed := time.Since(start)
		fields := []zap.Field{
			zap.Int(logging.FieldStatusCode, status),
			zap.Duration(logging.FieldDuration, elapsed),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if sessionID := c.GetString(ContextKeySessionID); sessionID != "" {
			fields = append(fields, zap.String(logging.FieldSessionID, sessionID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String(logging.FieldError, c.Errors.String()))
		}
		ce.Write(fields...)
	}
}

func requestIDOf(c *gin.Context) string {
	if id, err := uuid.Parse(c.GetHeader(HeaderRequestID)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func completion(status int) (zapcore.Level, string) {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel, "request completed with server error"
	case status >= 400:
		return zapcore.WarnLevel, "request completed with client error"
	default:
		return zapcore.InfoLevel, "request completed"
	}
}

// GetLogger returns the request-scoped logger, or a no-op logger outside
// RequestLogger.
func GetLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Value(ContextKeyLogger).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// GetRequestID returns the request ID, or "" outside RequestLogger.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
