package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "If-None-Match", HeaderSessionID, HeaderRequestID}, ", ")
	corsExposeHeaders = strings.Join([]string{"Content-Disposition", "ETag", "Retry-After", HeaderSessionID, HeaderRequestID}, ", ")
)

// CORS lets a browser console on another origin call the API with the
// session cookie. A request origin is echoed back when it is listed or
// when the list holds "*"; preflight requests from such origins end here
// with 204. Requests from other origins pass through without CORS headers.
func CORS(allowOrigins []string) gin.HandlerFunc {
	wildcard := slices.Contains(allowOrigins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || (!wildcard && !slices.Contains(allowOrigins, origin)) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)

		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", "86400")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
