package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/logging"
)

// SQLStore is a Backend persisted in the session_values table.
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLStore creates a database backed session store.
//
// Parameters:
//   - db: Database connection with the session_values table
//   - logger: Zap logger for structured logging
//
// Returns:
//   - Configured SQLStore
func NewSQLStore(db *sql.DB, logger *zap.Logger) *SQLStore {
	return &SQLStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the value of key in a session.
func (s *SQLStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session value: %w", err)
	}
	return value, true, nil
}

// Set stores a value of a session, replacing any previous value.
func (s *SQLStore) Set(ctx context.Context, sessionID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, sessionID, key, value, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set session value: %w", err)
	}

	s.logger.Debug("session value stored",
		zap.String(logging.FieldSessionID, sessionID),
		zap.String("key", key),
	)
	return nil
}

// Prune deletes the values of sessions idle for longer than maxIdle.
//
// Returns:
//   - int64: Number of deleted values
//   - error: Any error that occurred
func (s *SQLStore) Prune(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxIdle).Unix()

	// A session is idle when none of its values changed since the cutoff.
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values
		WHERE session_id IN (
			SELECT session_id FROM session_values
			GROUP BY session_id
			HAVING MAX(updated_at) < ?
		)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned values: %w", err)
	}

	if n > 0 {
		s.logger.Info("idle sessions pruned",
			zap.Int64("values", n),
			zap.Duration("max_idle", maxIdle),
		)
	}
	return n, nil
}
