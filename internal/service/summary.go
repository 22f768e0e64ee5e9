package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/internal/metrics"
	"gridcfg.io/console/internal/session"
	"gridcfg.io/console/internal/summary"
	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
)

// SummaryService drives one summary view-model per session.
//
// Every call rebuilds the view-model from the catalogue and the session
// store, so state survives across requests that share a session ID.
type SummaryService struct {
	clusters *ClusterService
	exports  *ExportService
	sessions session.Backend
	logger   *zap.Logger
}

// NewSummaryService creates a new summary service.
//
// Parameters:
//   - clusters: Cluster catalogue
//   - exports: Bundle export service
//   - sessions: Session value backend
//   - logger: Zap logger for structured logging
//
// Returns:
//   - Configured SummaryService
func NewSummaryService(clusters *ClusterService, exports *ExportService, sessions session.Backend, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		clusters: clusters,
		exports:  exports,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *SummaryService) load(ctx context.Context, sessionID string) (*summary.ViewModel, error) {
	clusters, err := s.clusters.List(ctx)
	if err != nil {
		return nil, err
	}

	vm := summary.New(session.Scope(s.sessions, sessionID))
	if err := vm.Load(ctx, clusters); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDatabaseError, err)
	}
	return vm, nil
}

// State returns the summary state of a session.
func (s *SummaryService) State(ctx context.Context, sessionID string) (models.SummaryState, error) {
	vm, err := s.load(ctx, sessionID)
	if err != nil {
		return models.SummaryState{}, err
	}
	return vm.State(), nil
}

// Select changes the selection of a session.
//
// The request selects by name or by index; an empty request clears the
// selection. A cleared selection stays cleared for later requests.
//
// Returns:
//   - models.SummaryState: The state after the change
//   - error: models.ErrInvalidRequest if both name and index are set,
//     models.ErrClusterNotFound for an unknown name or index
func (s *SummaryService) Select(ctx context.Context, sessionID string, req models.SelectRequest) (state models.SummaryState, err error) {
	defer func() { metrics.SummaryOperations.WithLabelValues("select", metrics.Status(err)).Inc() }()

	if req.Name != "" && req.Index != nil {
		return state, fmt.Errorf("%w: name and index are mutually exclusive", models.ErrInvalidRequest)
	}

	vm, err := s.load(ctx, sessionID)
	if err != nil {
		return state, err
	}

	switch {
	case req.Name != "":
		err = vm.SelectName(ctx, req.Name)
	case req.Index != nil:
		err = vm.SelectIndex(ctx, *req.Index)
	default:
		if err = vm.SelectItem(ctx, nil); err == nil {
			err = session.Scope(s.sessions, sessionID).Set(ctx, summary.SelectedKey, strconv.Itoa(summary.NoSelection))
		}
	}
	if err != nil {
		return state, err
	}

	state = vm.State()
	logging.FromContextOr(ctx, s.logger).Debug("selection changed",
		zap.Int("selected_index", state.SelectedIndex),
	)
	return state, nil
}

// SetTab activates a tab of a tab group of a session.
//
// Returns:
//   - error: models.ErrInvalidTab for an unknown group or unavailable tab
func (s *SummaryService) SetTab(ctx context.Context, sessionID, group string, index int) (state models.SummaryState, err error) {
	defer func() { metrics.SummaryOperations.WithLabelValues("set_tab", metrics.Status(err)).Inc() }()

	vm, err := s.load(ctx, sessionID)
	if err != nil {
		return state, err
	}

	if err := vm.SetTab(ctx, group, index); err != nil {
		return state, err
	}
	return vm.State(), nil
}

// Export builds the bundle of the cluster selected in a session.
//
// Returns:
//   - *bundle.Result: The serialized archive
//   - error: models.ErrNoSelection if nothing is selected
func (s *SummaryService) Export(ctx context.Context, sessionID string) (result *bundle.Result, err error) {
	defer func() { metrics.SummaryOperations.WithLabelValues("export", metrics.Status(err)).Inc() }()

	vm, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cluster := vm.Selected()
	if cluster == nil {
		return nil, models.ErrNoSelection
	}

	return s.exports.Export(ctx, sessionID, cluster, nil)
}
