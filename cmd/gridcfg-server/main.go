// Package main provides the gridcfg console server.
//
// This is the main entrypoint for the gridcfg-server binary which serves the
// cluster catalogue, the per-session summary screen, and bundle downloads.
//
// Usage:
//
//	gridcfg-server [flags]
//	gridcfg-server util <subcommand> [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gridcfg.io/console/cmd/gridcfg-server/cmd"
	"gridcfg.io/console/internal/api"
	"gridcfg.io/console/internal/api/middleware"
	"gridcfg.io/console/internal/database"
	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/internal/metrics"
	"gridcfg.io/console/internal/ratelimit"
	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/internal/session"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config holds server configuration from flags and environment variables.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080").
	ListenAddr string

	// DatabasePath is the path to the SQLite database file.
	DatabasePath string

	// InstanceID is this server instance's UUID.
	InstanceID string

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string

	// LogFormat is the log format (json, console).
	LogFormat string

	// AllowOrigins is comma-separated list of allowed CORS origins.
	AllowOrigins string

	// CataloguePath is an optional catalogue file imported on startup.
	CataloguePath string

	// PlatformVersion is written into generated bundles.
	PlatformVersion string

	// StrictPaths rejects bundles with colliding class paths.
	StrictPaths bool

	// DisableRateLimit turns off all rate limiting.
	DisableRateLimit bool

	// SessionTTL is how long an idle session keeps its summary state.
	SessionTTL time.Duration

	// ExportRetention is how long export history records are kept.
	ExportRetention time.Duration

	// MaintenanceInterval is the period of pruning and database statistics.
	MaintenanceInterval time.Duration
}

// parseFlags parses command-line flags and environment variables.
func parseFlags(args []string) (*Config, error) {
	config := &Config{}
	fs := flag.NewFlagSet("gridcfg-server", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "listen", getEnv("GRIDCFG_LISTEN_ADDR", ":8080"),
		"Address to listen on")
	fs.StringVar(&config.DatabasePath, "db", getEnv("GRIDCFG_DB_PATH", "./gridcfg.db"),
		"Path to SQLite database file")
	fs.StringVar(&config.InstanceID, "instance-id", getEnv("GRIDCFG_INSTANCE_ID", ""),
		"Server instance UUID (auto-generated if not provided)")
	fs.StringVar(&config.LogLevel, "log-level", getEnv("GRIDCFG_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	fs.StringVar(&config.LogFormat, "log-format", getEnv("GRIDCFG_LOG_FORMAT", "console"),
		"Log format (json, console)")
	fs.StringVar(&config.AllowOrigins, "cors-origins", getEnv("GRIDCFG_CORS_ORIGINS", ""),
		"Comma-separated list of allowed CORS origins (* for all)")
	fs.StringVar(&config.CataloguePath, "catalogue", getEnv("GRIDCFG_CATALOGUE", ""),
		"Cluster catalogue (YAML or JSON) imported on startup")
	fs.StringVar(&config.PlatformVersion, "platform-version", getEnv("GRIDCFG_PLATFORM_VERSION", ""),
		"Platform version written into generated bundles")
	fs.BoolVar(&config.StrictPaths, "strict-paths", getEnv("GRIDCFG_STRICT_PATHS", "") == "true",
		"Reject bundles in which two classes map to one path")
	fs.BoolVar(&config.DisableRateLimit, "disable-rate-limit", getEnv("GRIDCFG_DISABLE_RATE_LIMIT", "") == "true",
		"Disable IP, session, and export rate limits")

	var err error
	if config.SessionTTL, err = getEnvDuration("GRIDCFG_SESSION_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if config.ExportRetention, err = getEnvDuration("GRIDCFG_EXPORT_RETENTION", 90*24*time.Hour); err != nil {
		return nil, err
	}
	if config.MaintenanceInterval, err = getEnvDuration("GRIDCFG_MAINTENANCE_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	fs.DurationVar(&config.SessionTTL, "session-ttl", config.SessionTTL,
		"Idle time after which session state is pruned")
	fs.DurationVar(&config.ExportRetention, "export-retention", config.ExportRetention,
		"Age after which export history records are pruned")
	fs.DurationVar(&config.MaintenanceInterval, "maintenance-interval", config.MaintenanceInterval,
		"Period of pruning and database statistics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return config, nil
}

// getEnv retrieves an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// validateConfig validates the server configuration.
func validateConfig(config *Config) error {
	// Generate instance ID if not provided
	if config.InstanceID == "" {
		config.InstanceID = uuid.New().String()
	}

	// Validate instance ID format
	if _, err := uuid.Parse(config.InstanceID); err != nil {
		return fmt.Errorf("invalid instance ID format: %w", err)
	}

	if config.MaintenanceInterval <= 0 {
		return fmt.Errorf("maintenance interval must be positive (got %s)", config.MaintenanceInterval)
	}

	return nil
}

// parseCORSOrigins parses the comma-separated CORS origins string.
func parseCORSOrigins(origins string) []string {
	var result []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "util" {
		if err := cmd.ExecuteUtil(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Parse configuration
	config, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Setup logger
	logger, err := logging.NewLogger(logging.Config{
		Level:  config.LogLevel,
		Format: logging.Format(config.LogFormat),
	})
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting gridcfg-server",
		zap.String("version", Version),
		zap.String("instance_id", config.InstanceID),
		zap.String("listen_addr", config.ListenAddr),
		zap.String("log_level", config.LogLevel),
		zap.Bool("strict_paths", config.StrictPaths),
		zap.Bool("rate_limit", !config.DisableRateLimit),
	)

	if err := metrics.Init(); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open database
	db, err := database.OpenMigrated(ctx, config.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := metrics.RegisterDB(db); err != nil {
		return fmt.Errorf("failed to register database metrics: %w", err)
	}

	if config.CataloguePath != "" {
		if err := importCatalogue(ctx, service.NewClusterService(db, logger), config.CataloguePath, logger); err != nil {
			return err
		}
	}

	var limiter *middleware.RateLimiter
	if !config.DisableRateLimit {
		limiter = middleware.NewRateLimiter(ratelimit.DefaultConfig())
		defer limiter.Stop()
	}

	sessions := session.NewSQLStore(db, logger)
	exports := service.NewExportService(db, logger)

	// Setup HTTP router
	router := api.SetupRouter(&api.RouterConfig{
		DB:              db,
		Logger:          logger,
		InstanceID:      config.InstanceID,
		AllowOrigins:    parseCORSOrigins(config.AllowOrigins),
		RateLimiter:     limiter,
		Sessions:        sessions,
		PlatformVersion: config.PlatformVersion,
		StrictPaths:     config.StrictPaths,
	})

	go maintain(ctx, config, sessions, exports, logger)

	server := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", config.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func importCatalogue(ctx context.Context, clusters *service.ClusterService, path string, logger *zap.Logger) error {
	defs, err := service.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	result, err := clusters.Import(ctx, defs)
	if err != nil {
		return fmt.Errorf("failed to import catalogue: %w", err)
	}

	logger.Info("catalogue imported",
		zap.String("path", path),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
	)
	return nil
}
