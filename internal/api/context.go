// Package api provides the REST API of the gridcfg console.
//
// This package implements the HTTP layer including routing, middleware, and
// handlers for the cluster catalogue, the per-session summary screen, and
// bundle downloads. It uses Gin for HTTP handling and integrates with the
// session and service layers.
package api

import (
	"github.com/gin-gonic/gin"

	"gridcfg.io/console/internal/api/middleware"
)

// Context keys for storing request information.
const (
	// ContextKeyRequestID stores the unique request ID for tracing.
	ContextKeyRequestID = middleware.ContextKeyRequestID

	// ContextKeySessionID stores the session the request belongs to.
	ContextKeySessionID = middleware.ContextKeySessionID
)

// GetRequestID retrieves the unique request ID from the request context.
// Returns an empty string if request ID not set.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetSessionID retrieves the session ID from the request context.
// Returns an empty string outside session-scoped routes.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
