package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/internal/session"
)

// ExecutePrune removes idle session state and old export history records.
func ExecutePrune(args []string) error {
	fs := flag.NewFlagSet("prune", flag.ContinueOnError)
	dbPath := fs.String("db", getEnv("GRIDCFG_DB_PATH", "./gridcfg.db"), "Path to SQLite database")
	sessionTTL := fs.Duration("session-ttl", 30*24*time.Hour, "Remove sessions idle for longer than this")
	exportRetention := fs.Duration("export-retention", 90*24*time.Hour, "Remove export records older than this")
	verbose := fs.Bool("verbose", false, "Enable verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := OpenDatabase(ctx, *dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logger.Info("pruning",
		zap.Duration("session_ttl", *sessionTTL),
		zap.Duration("export_retention", *exportRetention),
	)

	sessions, err := session.NewSQLStore(db, logger).Prune(ctx, *sessionTTL)
	if err != nil {
		return err
	}

	exports, err := service.NewExportService(db, logger).Prune(ctx, *exportRetention)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Removed %d session value(s) and %d export record(s)\n", sessions, exports)
	return nil
}
