package api

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gridcfg.io/console/internal/api/handlers"
	"gridcfg.io/console/internal/api/middleware"
	"gridcfg.io/console/internal/metrics"
	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/internal/session"
)

// RouterConfig holds configuration for setting up the HTTP router.
type RouterConfig struct {
	// DB is the database connection.
	DB *sql.DB

	// Logger is the Zap logger for request logging.
	Logger *zap.Logger

	// InstanceID is this server instance's UUID.
	InstanceID string

	// AllowOrigins is the list of allowed CORS origins.
	// Use []string{"*"} to allow all origins (not recommended for production).
	AllowOrigins []string

	// RateLimiter applies IP, session, and export limits. Nil disables
	// rate limiting.
	RateLimiter *middleware.RateLimiter

	// Sessions stores per-session summary state. Defaults to a SQLite
	// backed store on DB.
	Sessions session.Backend

	// PlatformVersion is written into generated bundles. Empty selects the
	// default version.
	PlatformVersion string

	// StrictPaths rejects bundles in which two classes map to one path.
	StrictPaths bool
}

// SetupRouter creates and configures the Gin HTTP router with all routes and middleware.
//
// This function sets up:
// - Global middleware (recovery, metrics, logging, CORS, IP rate limiting)
// - Health check and metrics endpoints
// - Cluster catalogue endpoints
// - Session-scoped summary endpoints
// - Export history and bundle validation endpoints
//
// Parameters:
//   - config: Router configuration
//
// Returns:
//   - Configured Gin engine ready to serve requests
func SetupRouter(config *RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	// Metrics middleware (should be early to capture all requests)
	router.Use(middleware.MetricsMiddleware())

	router.Use(middleware.RequestLogger(config.Logger))

	if len(config.AllowOrigins) > 0 {
		router.Use(middleware.CORS(config.AllowOrigins))
	}

	rl := config.RateLimiter
	limit := func(h func(*middleware.RateLimiter) gin.HandlerFunc) gin.HandlerFunc {
		if rl == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return h(rl)
	}

	router.Use(limit((*middleware.RateLimiter).ByIP))

	sessions := config.Sessions
	if sessions == nil {
		sessions = session.NewSQLStore(config.DB, config.Logger)
	}

	// Services
	clusterService := service.NewClusterService(config.DB, config.Logger)
	exportService := service.NewExportService(config.DB, config.Logger,
		service.WithPlatformVersion(config.PlatformVersion),
		service.WithStrictPaths(config.StrictPaths),
	)
	summaryService := service.NewSummaryService(clusterService, exportService, sessions, config.Logger)

	healthHandler := handlers.NewHealthHandler(config.DB, config.InstanceID)
	clusterHandler := handlers.NewClusterHandler(clusterService, exportService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		metrics.Registry,
		promhttp.HandlerOpts{},
	)))

	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Liveness)
		health.GET("/ready", healthHandler.Readiness)
	}

	v1 := router.Group("/api/v1")

	clusters := v1.Group("/clusters")
	{
		// GET /api/v1/clusters - List the cluster catalogue
		clusters.GET("", clusterHandler.ListClusters)

		// POST /api/v1/clusters/import - Upsert clusters from a catalogue document
		clusters.POST("/import", clusterHandler.ImportClusters)

		// GET /api/v1/clusters/:name - Get one cluster
		clusters.GET("/:name", clusterHandler.GetCluster)

		// DELETE /api/v1/clusters/:name - Remove a cluster
		clusters.DELETE("/:name", clusterHandler.DeleteCluster)

		// POST /api/v1/clusters/:name/bundle - Download the bundle of a named cluster
		clusters.POST("/:name/bundle", limit((*middleware.RateLimiter).ForExports), clusterHandler.ExportCluster)
	}

	// Summary endpoints (bound to the caller's session)
	summary := v1.Group("/summary")
	summary.Use(middleware.Session())
	summary.Use(limit((*middleware.RateLimiter).BySession))
	{
		// GET /api/v1/summary - Current selection and tab state
		summary.GET("", summaryHandler.GetSummary)

		// PUT /api/v1/summary/selection - Select by name or index, {} clears
		summary.PUT("/selection", summaryHandler.Select)

		// PUT /api/v1/summary/tabs/:group - Activate a tab of a tab group
		summary.PUT("/tabs/:group", summaryHandler.SetTab)

		// GET /api/v1/summary/bundle - Download the bundle of the selected cluster
		summary.GET("/bundle", limit((*middleware.RateLimiter).ForExports), summaryHandler.DownloadBundle)
	}

	// GET /api/v1/exports - Recent exports, newest first
	v1.GET("/exports", exportHandler.ListExports)

	// POST /api/v1/bundles/validate - Check an archive
	v1.POST("/bundles/validate", handlers.ValidateBundle)

	return router
}
