package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/internal/metrics"
	"gridcfg.io/console/internal/util"
	"gridcfg.io/console/models"
)

// Catalogue is the document format of a cluster catalogue file.
type Catalogue struct {
	Clusters []models.Cluster `yaml:"clusters"`
}

// ImportResult summarizes a catalogue import.
type ImportResult struct {
	// Created is the number of clusters that did not exist before
	Created int `json:"created"`

	// Updated is the number of existing clusters whose definition was replaced
	Updated int `json:"updated"`
}

// ClusterService provides read and import operations on the cluster catalogue.
type ClusterService struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewClusterService creates a new cluster service.
//
// Parameters:
//   - db: Database connection
//   - logger: Zap logger for structured logging
//
// Returns:
//   - Configured ClusterService
func NewClusterService(db *sql.DB, logger *zap.Logger) *ClusterService {
	return &ClusterService{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// List returns all clusters ordered by name.
//
// Returns:
//   - []models.Cluster: The cluster sequence (never nil)
//   - error: Any error that occurred
func (s *ClusterService) List(ctx context.Context) (clusters []models.Cluster, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("clusters_list", start, err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, definition, created_at, updated_at
		FROM clusters
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list clusters: %w", models.ErrDatabaseError, err)
	}
	defer rows.Close()

	clusters = []models.Cluster{}
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate clusters: %w", models.ErrDatabaseError, err)
	}

	metrics.ClusterCount.Set(float64(len(clusters)))
	return clusters, nil
}

// Get returns one cluster by name.
//
// Returns:
//   - *models.Cluster: The cluster
//   - error: models.ErrClusterNotFound if no cluster has this name
func (s *ClusterService) Get(ctx context.Context, name string) (c *models.Cluster, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("clusters_get", start, err) }()

	row := s.db.QueryRowContext(ctx, `
		SELECT name, definition, created_at, updated_at
		FROM clusters
		WHERE name = ?
	`, name)

	c, err = scanCluster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrClusterNotFound, name)
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCluster(row scanner) (*models.Cluster, error) {
	var (
		name, definition     string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&name, &definition, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to scan cluster: %w", models.ErrDatabaseError, err)
	}

	var c models.Cluster
	if err := json.Unmarshal([]byte(definition), &c); err != nil {
		return nil, fmt.Errorf("%w: corrupt definition of %s: %w", models.ErrDatabaseError, name, err)
	}
	c.Name = name
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	c.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &c, nil
}

// Import validates and upserts clusters in one transaction.
//
// Either every cluster is stored or none is. Existing clusters keep their
// creation time.
//
// Returns:
//   - ImportResult: Number of created and updated clusters
//   - error: models.ErrInvalidCluster, models.ErrDuplicateName for a name
//     repeated within the batch, or a database error
func (s *ClusterService) Import(ctx context.Context, clusters []models.Cluster) (result ImportResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("clusters_import", start, err) }()

	seen := make(map[string]bool, len(clusters))
	for i := range clusters {
		if err := util.ValidateCluster(&clusters[i]); err != nil {
			return result, err
		}
		if seen[clusters[i].Name] {
			return result, fmt.Errorf("%w: %s", models.ErrDuplicateName, clusters[i].Name)
		}
		seen[clusters[i].Name] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("%w: failed to begin transaction: %w", models.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	now := s.now().Unix()
	for _, c := range clusters {
		definition, err := json.Marshal(c)
		if err != nil {
			return result, fmt.Errorf("failed to encode cluster %s: %w", c.Name, err)
		}

		var exists int
		err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clusters WHERE name = ?`, c.Name).Scan(&exists)
		if err != nil {
			return result, fmt.Errorf("%w: failed to check cluster %s: %w", models.ErrDatabaseError, c.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO clusters (name, definition, created_at, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				definition = excluded.definition,
				updated_at = excluded.updated_at
		`, c.Name, string(definition), now, now)
		if err != nil {
			return result, fmt.Errorf("%w: failed to store cluster %s: %w", models.ErrDatabaseError, c.Name, err)
		}

		if exists > 0 {
			result.Updated++
		} else {
			result.Created++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("%w: failed to commit transaction: %w", models.ErrDatabaseError, err)
	}

	s.logger.Info("cluster catalogue imported",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
	)

	return result, nil
}

// Delete removes a cluster from the catalogue.
//
// Returns:
//   - error: models.ErrClusterNotFound if no cluster has this name
func (s *ClusterService) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("clusters_delete", start, err) }()

	res, err := s.db.ExecContext(ctx, `DELETE FROM clusters WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("%w: failed to delete cluster: %w", models.ErrDatabaseError, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check deletion: %w", models.ErrDatabaseError, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrClusterNotFound, name)
	}

	s.logger.Info("cluster deleted", zap.String(logging.FieldCluster, name))
	return nil
}

// ParseCatalogue decodes a YAML (or JSON) catalogue document.
// Unknown fields are rejected so that typos do not silently drop settings.
func ParseCatalogue(r io.Reader) ([]models.Cluster, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cat Catalogue
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Cluster{}, nil
		}
		return nil, fmt.Errorf("%w: failed to parse catalogue: %w", models.ErrInvalidRequest, err)
	}
	if cat.Clusters == nil {
		cat.Clusters = []models.Cluster{}
	}
	return cat.Clusters, nil
}

// LoadFile reads a catalogue file from disk.
func LoadFile(path string) ([]models.Cluster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()

	return ParseCatalogue(f)
}
