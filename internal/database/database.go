// Package database opens the SQLite database of the console and applies its
// schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	// Register the pure Go SQLite driver.
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens a connection to the SQLite database at path.
//
// Parameters:
//   - path: Database file path, or MemoryPath
//   - logger: Zap logger for structured logging
//
// Returns:
//   - *sql.DB: The open, pinged connection pool
//   - error: Any error that occurred
func Open(path string, logger *zap.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	if path == MemoryPath {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// Every connection of an in-memory database sees its own database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", zap.String("path", path))
	return db, nil
}

// migration is one schema change, applied at most once.
type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "001_create_clusters",
		sql: `
			CREATE TABLE IF NOT EXISTS clusters (
				name TEXT PRIMARY KEY,
				definition TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			);`,
	},
	{
		name: "002_create_session_values",
		sql: `
			CREATE TABLE IF NOT EXISTS session_values (
				session_id TEXT NOT NULL,
				key TEXT NOT NULL,
				value TEXT NOT NULL,
				updated_at INTEGER NOT NULL,
				PRIMARY KEY (session_id, key)
			);
			CREATE INDEX IF NOT EXISTS idx_session_values_updated ON session_values(updated_at);`,
	},
	{
		name: "003_create_exports",
		sql: `
			CREATE TABLE IF NOT EXISTS exports (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL DEFAULT '',
				cluster_name TEXT NOT NULL,
				file_name TEXT NOT NULL,
				entries INTEGER NOT NULL,
				size_bytes INTEGER NOT NULL,
				created_at INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at);`,
	},
}

// Migrate applies all pending schema migrations.
//
// Applied migrations are recorded in the schema_migrations table so that
// Migrate is safe to call on every start.
//
// Returns:
//   - int: Number of migrations applied by this call
//   - error: Any error that occurred
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)`)
	if err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		var exists int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, m.name).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", m.name, err)
		}
		if exists > 0 {
			continue
		}

		if err := apply(ctx, db, m); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("migration %s failed: %w", m.name, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, m.name, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m.name, err)
	}

	return tx.Commit()
}

// OpenMigrated opens the database at path and applies all migrations.
func OpenMigrated(ctx context.Context, path string, logger *zap.Logger) (*sql.DB, error) {
	db, err := Open(path, logger)
	if err != nil {
		return nil, err
	}

	n, err := Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if n > 0 {
		logger.Info("database migrations applied", zap.Int("count", n))
	}

	return db, nil
}
