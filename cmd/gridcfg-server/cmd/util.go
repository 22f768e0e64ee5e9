// Package cmd provides maintenance commands for gridcfg-server.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/database"
	"gridcfg.io/console/internal/logging"
)

// stdout receives command reports.
var stdout io.Writer = os.Stdout

// OpenDatabase opens the SQLite database and brings its schema up to date.
func OpenDatabase(ctx context.Context, path string, logger *zap.Logger) (*sql.DB, error) {
	return database.OpenMigrated(ctx, path, logger)
}

// ExecuteUtil runs a utility command with the given arguments.
func ExecuteUtil(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("util command requires a subcommand\n\nAvailable subcommands:\n  import-clusters   Import a cluster catalogue file\n  verify-bundle     Verify bundle archives or a cluster's generated bundle\n  prune             Remove idle sessions and old export records\n  compact-db        Compact and optimize database")
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "import-clusters":
		return ExecuteImportClusters(subArgs)
	case "verify-bundle":
		return ExecuteVerifyBundle(subArgs)
	case "prune":
		return ExecutePrune(subArgs)
	case "compact-db":
		return ExecuteCompactDB(subArgs)
	default:
		return fmt.Errorf("unknown util subcommand: %s", subcommand)
	}
}

// newLogger builds the stderr logger shared by the util commands.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := logging.CLIConfig(verbose)
	if !verbose {
		cfg.Level = "info"
	}
	return logging.NewLogger(cfg)
}

// getEnv retrieves an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
