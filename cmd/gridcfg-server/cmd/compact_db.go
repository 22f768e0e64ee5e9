package cmd

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"go.uber.org/zap"
)

// reportTables are counted after compaction.
var reportTables = []string{"clusters", "session_values", "exports"}

const mib = 1 << 20

// ExecuteCompactDB runs VACUUM (and optionally ANALYZE) on the console
// database and reports the reclaimed space and the table sizes.
func ExecuteCompactDB(args []string) error {
	fs := flag.NewFlagSet("compact-db", flag.ContinueOnError)
	dbPath := fs.String("db", getEnv("GRIDCFG_DB_PATH", "./gridcfg.db"), "Path to SQLite database")
	analyze := fs.Bool("analyze", true, "Run ANALYZE after VACUUM")
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

	before, err := dbSize(ctx, db)
	if err != nil {
		return err
	}

	logger.Info("running VACUUM", zap.String("path", *dbPath), zap.Int64("size_before", before))
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("VACUUM failed: %w", err)
	}

	after, err := dbSize(ctx, db)
	if err != nil {
		return err
	}

	saved := before - after
	var pct float64
	if before > 0 {
		pct = float64(saved) * 100 / float64(before)
	}
	fmt.Fprintf(stdout, "Size: %.2f MB -> %.2f MB (reclaimed %.2f MB, %.1f%%)\n",
		float64(before)/mib, float64(after)/mib, float64(saved)/mib, pct)

	if *analyze {
		if _, err := db.ExecContext(ctx, "ANALYZE"); err != nil {
			return fmt.Errorf("ANALYZE failed: %w", err)
		}
		fmt.Fprintln(stdout, "✓ ANALYZE completed")
	}

	fmt.Fprintln(stdout, "Rows:")
	for _, table := range reportTables {
		var n int64
		// Table names come from reportTables, never from input.
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			logger.Warn("failed to count rows", zap.String("table", table), zap.Error(err))
			continue
		}
		fmt.Fprintf(stdout, "  %-16s %d\n", table+":", n)
	}

	fmt.Fprintln(stdout, "✓ Database compaction completed")
	return nil
}

// dbSize returns the database file size in bytes as SQLite accounts it.
func dbSize(ctx context.Context, db *sql.DB) (int64, error) {
	var pages, pageSize int64
	if err := db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err != nil {
		return 0, fmt.Errorf("failed to read page count: %w", err)
	}
	if err := db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("failed to read page size: %w", err)
	}
	return pages * pageSize, nil
}
