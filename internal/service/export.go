package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/internal/metrics"
	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
	"gridcfg.io/console/pkg/generator"
)

const (
	// DefaultHistoryLimit is the number of export records returned by default.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps the number of export records per request.
	MaxHistoryLimit = 500
)

// ExportOption configures an ExportService.
type ExportOption func(*exportConfig)

type exportConfig struct {
	platformVersion string
	strict          bool
}

// WithPlatformVersion sets the platform version of generated bundles.
func WithPlatformVersion(version string) ExportOption {
	return func(c *exportConfig) {
		c.platformVersion = version
	}
}

// WithStrictPaths rejects bundles in which two classes map to one path.
func WithStrictPaths(strict bool) ExportOption {
	return func(c *exportConfig) {
		c.strict = strict
	}
}

// ExportService builds configuration bundles and keeps an audit trail of
// every produced archive.
type ExportService struct {
	db      *sql.DB
	logger  *zap.Logger
	gen     *generator.Generator
	builder *bundle.Builder
	group   singleflight.Group
	now     func() time.Time
}

// NewExportService creates a new export service with the default generators.
//
// Parameters:
//   - db: Database connection
//   - logger: Zap logger for structured logging
//   - opts: Optional settings (platform version, strict paths)
//
// Returns:
//   - Configured ExportService
func NewExportService(db *sql.DB, logger *zap.Logger, opts ...ExportOption) *ExportService {
	cfg := exportConfig{platformVersion: bundle.DefaultPlatformVersion}
	for _, opt := range opts {
		opt(&cfg)
	}

	gen := generator.New(generator.WithPlatformVersion(cfg.platformVersion))

	return &ExportService{
		db:     db,
		logger: logger,
		gen:    gen,
		builder: bundle.NewBuilder(gen,
			bundle.WithPlatformVersion(cfg.platformVersion),
			bundle.WithStrictPaths(cfg.strict),
		),
		now: time.Now,
	}
}

// Export builds the bundle of a cluster.
//
// With a nil payload the Dockerfile and POJO classes are derived from the
// cluster, and concurrent exports of the same cluster for the same session
// share a single build. A supplied payload is always built on its own.
//
// Parameters:
//   - ctx: Request context, carries the request logger
//   - sessionID: Requesting session (empty for direct exports)
//   - cluster: The cluster to export
//   - payload: Optional side payload override
//
// Returns:
//   - *bundle.Result: The serialized archive
//   - error: models.ErrNoSelection for a nil cluster, models.ErrGeneration if
//     a generator failed or produced an invalid archive
func (s *ExportService) Export(ctx context.Context, sessionID string, cluster *models.Cluster, payload *models.ExportPayload) (*bundle.Result, error) {
	if cluster == nil {
		return nil, models.ErrNoSelection
	}

	if payload != nil {
		return s.export(ctx, sessionID, cluster, *payload)
	}

	key := sessionID + "\x00" + cluster.Name
	v, err, shared := s.group.Do(key, func() (any, error) {
		p, err := s.gen.Payload(cluster)
		if err != nil {
			metrics.ExportsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: payload: %w", models.ErrGeneration, err)
		}
		return s.export(ctx, sessionID, cluster, p)
	})
	if shared {
		metrics.ExportsShared.Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(*bundle.Result), nil
}

func (s *ExportService) export(ctx context.Context, sessionID string, cluster *models.Cluster, payload models.ExportPayload) (*bundle.Result, error) {
	logger := logging.FromContextOr(ctx, s.logger).With(zap.String(logging.FieldCluster, cluster.Name))
	start := time.Now()

	result, err := s.builder.Export(cluster, payload)
	if err == nil {
		if v := bundle.Validate(result.Data); !v.Valid {
			err = fmt.Errorf("%w: %w", models.ErrGeneration, v.Error)
		}
	}
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	metrics.ExportsTotal.WithLabelValues(metrics.Status(err)).Inc()

	if err != nil {
		logger.Warn("bundle export failed", zap.Error(err))
		return nil, err
	}

	metrics.ExportSize.Observe(float64(len(result.Data)))
	metrics.ExportEntries.Observe(float64(len(result.Files)))

	record := models.ExportRecord{
		SessionID:   sessionID,
		ClusterName: cluster.Name,
		FileName:    result.FileName,
		Entries:     len(result.Files),
		SizeBytes:   int64(len(result.Data)),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.record(ctx, &record); err != nil {
		// Audit failures do not fail the download.
		logger.Error("failed to record export", zap.Error(err))
	}

	logger.Info("bundle exported",
		zap.String(logging.FieldFileName, result.FileName),
		zap.Int(logging.FieldEntries, record.Entries),
		zap.Int64(logging.FieldSizeBytes, record.SizeBytes),
	)

	return result, nil
}

func (s *ExportService) record(ctx context.Context, r *models.ExportRecord) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("exports_insert", start, err) }()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (session_id, cluster_name, file_name, entries, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.ClusterName, r.FileName, r.Entries, r.SizeBytes, r.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("%w: failed to insert export: %w", models.ErrDatabaseError, err)
	}

	r.ID, err = res.LastInsertId()
	return err
}

// History returns recent export records, newest first.
//
// Parameters:
//   - limit: Maximum number of records; <= 0 selects DefaultHistoryLimit and
//     values above MaxHistoryLimit are capped
//
// Returns:
//   - []models.ExportRecord: The records (never nil)
//   - error: Any error that occurred
func (s *ExportService) History(ctx context.Context, limit int) (records []models.ExportRecord, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("exports_history", start, err) }()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, cluster_name, file_name, entries, size_bytes, created_at
		FROM exports
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list exports: %w", models.ErrDatabaseError, err)
	}
	defer rows.Close()

	records = []models.ExportRecord{}
	for rows.Next() {
		var (
			r         models.ExportRecord
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ClusterName, &r.FileName, &r.Entries, &r.SizeBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan export: %w", models.ErrDatabaseError, err)
		}
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate exports: %w", models.ErrDatabaseError, err)
	}

	return records, nil
}

// Prune deletes export records older than maxAge.
func (s *ExportService) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exports WHERE created_at < ?`, s.now().Add(-maxAge).Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: failed to prune exports: %w", models.ErrDatabaseError, err)
	}
	return res.RowsAffected()
}
