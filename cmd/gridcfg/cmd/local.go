package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/database"
	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/internal/session"
	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
	"gridcfg.io/console/sdk"
)

// localConsole runs the summary services in process over an in-memory
// database seeded from a catalogue file.
type localConsole struct {
	db        *sql.DB
	clusters  *service.ClusterService
	summary   *service.SummaryService
	exports   *service.ExportService
	sessionID string
}

func newLocalConsole(ctx context.Context, path, platformVersion string, strictPaths bool, logger *zap.Logger) (*localConsole, error) {
	clusters, err := service.LoadFile(path)
	if err != nil {
		return nil, err
	}

	db, err := database.OpenMigrated(ctx, database.MemoryPath, logger)
	if err != nil {
		return nil, err
	}

	clusterService := service.NewClusterService(db, logger)
	if _, err := clusterService.Import(ctx, clusters); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load catalogue %s: %w", path, err)
	}

	exports := service.NewExportService(db, logger,
		service.WithPlatformVersion(platformVersion),
		service.WithStrictPaths(strictPaths),
	)

	return &localConsole{
		db:        db,
		clusters:  clusterService,
		summary:   service.NewSummaryService(clusterService, exports, session.NewMemoryStore(), logger),
		exports:   exports,
		sessionID: session.NewID(),
	}, nil
}

func (l *localConsole) Close() {
	l.db.Close()
}

func (l *localConsole) ListClusters(ctx context.Context) ([]models.Cluster, error) {
	return l.clusters.List(ctx)
}

func (l *localConsole) Summary(ctx context.Context) (*models.SummaryState, error) {
	return stateOf(l.summary.State(ctx, l.sessionID))
}

func (l *localConsole) SelectName(ctx context.Context, name string) (*models.SummaryState, error) {
	return stateOf(l.summary.Select(ctx, l.sessionID, models.SelectRequest{Name: name}))
}

func (l *localConsole) SelectIndex(ctx context.Context, index int) (*models.SummaryState, error) {
	return stateOf(l.summary.Select(ctx, l.sessionID, models.SelectRequest{Index: &index}))
}

func (l *localConsole) ClearSelection(ctx context.Context) (*models.SummaryState, error) {
	return stateOf(l.summary.Select(ctx, l.sessionID, models.SelectRequest{}))
}

func (l *localConsole) SetTab(ctx context.Context, group string, index int) (*models.SummaryState, error) {
	return stateOf(l.summary.SetTab(ctx, l.sessionID, group, index))
}

func (l *localConsole) DownloadBundle(ctx context.Context) (*sdk.Bundle, error) {
	result, err := l.summary.Export(ctx, l.sessionID)
	if err != nil {
		return nil, err
	}
	return bundleOf(result), nil
}

func (l *localConsole) ExportCluster(ctx context.Context, name string, payload *models.ExportPayload) (*sdk.Bundle, error) {
	cluster, err := l.clusters.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	result, err := l.exports.Export(ctx, "", cluster, payload)
	if err != nil {
		return nil, err
	}
	return bundleOf(result), nil
}

func stateOf(state models.SummaryState, err error) (*models.SummaryState, error) {
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func bundleOf(result *bundle.Result) *sdk.Bundle {
	return &sdk.Bundle{FileName: result.FileName, Data: result.Data}
}
