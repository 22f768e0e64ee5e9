package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridcfg.io/console/internal/metrics"
)

func newMetricsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics.Registry = prometheus.NewRegistry()
	metrics.HTTPRequestsTotal.Reset()
	metrics.BundleDownloads.Reset()
	require.NoError(t, metrics.Init())

	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/clusters/:name", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": c.Param("name")})
	})
	router.GET("/bundle", func(c *gin.Context) {
		c.Header("ETag", `"abc"`)
		if c.GetHeader("If-None-Match") == `"abc"` {
			c.Status(http.StatusNotModified)
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", []byte("PK"))
	})
	return router
}

func serve(router *gin.Engine, path string, header http.Header) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestMetricsMiddleware_LabelsByRoute(t *testing.T) {
	router := newMetricsRouter(t)

	for _, name := range []string{"alpha", "beta", "gamma"} {
		assert.Equal(t, http.StatusOK, serve(router, "/clusters/"+name, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(
		metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/clusters/:name", "200")))
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	router := newMetricsRouter(t)

	assert.Equal(t, http.StatusNotFound, serve(router, "/nope/1", nil))
	assert.Equal(t, http.StatusNotFound, serve(router, "/nope/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(
		metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
}

func TestMetricsMiddleware_BundleDownloads(t *testing.T) {
	router := newMetricsRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, "/bundle", nil))
	assert.Equal(t, http.StatusNotModified, serve(router, "/bundle", http.Header{"If-None-Match": {`"abc"`}}))
	assert.Equal(t, http.StatusOK, serve(router, "/clusters/alpha", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BundleDownloads.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BundleDownloads.WithLabelValues("not_modified")))
}
