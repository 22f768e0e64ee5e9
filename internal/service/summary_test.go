package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"gridcfg.io/console/internal/session"
	"gridcfg.io/console/internal/summary"
	"gridcfg.io/console/models"
)

func newSummaryService(t *testing.T) (*SummaryService, *session.MemoryStore) {
	t.Helper()

	db := newTestDB(t)
	clusters := NewClusterService(db, zap.NewNop())
	seedClusters(t, clusters)

	sessions := session.NewMemoryStore()
	return NewSummaryService(clusters, NewExportService(db, zap.NewNop()), sessions, zap.NewNop()), sessions
}

func intPtr(i int) *int { return &i }

func TestSummaryService_DefaultsToFirstCluster(t *testing.T) {
	svc, _ := newSummaryService(t)

	state, err := svc.State(context.Background(), session.NewID())
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.SelectedIndex != 0 || state.Cluster == nil || state.Cluster.Name != "alpha" {
		t.Fatalf("expected first cluster selected, got %+v", state)
	}
	if !state.HasPojo {
		t.Fatalf("expected alpha to report a POJO store")
	}
	if len(state.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %v", state.Clusters)
	}
}

func TestSummaryService_SelectionPersistsPerSession(t *testing.T) {
	svc, _ := newSummaryService(t)
	ctx := context.Background()
	a, b := session.NewID(), session.NewID()

	if _, err := svc.Select(ctx, a, models.SelectRequest{Name: "beta"}); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	state, err := svc.State(ctx, a)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.SelectedIndex != 1 {
		t.Fatalf("expected beta to stay selected, got %d", state.SelectedIndex)
	}

	state, err = svc.State(ctx, b)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.SelectedIndex != 0 {
		t.Fatalf("other session must keep its own selection, got %d", state.SelectedIndex)
	}
}

func TestSummaryService_SelectByIndexAndClear(t *testing.T) {
	svc, sessions := newSummaryService(t)
	ctx := context.Background()
	id := session.NewID()

	state, err := svc.Select(ctx, id, models.SelectRequest{Index: intPtr(1)})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if state.Cluster == nil || state.Cluster.Name != "beta" {
		t.Fatalf("expected beta, got %+v", state.Cluster)
	}

	state, err = svc.Select(ctx, id, models.SelectRequest{})
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if state.SelectedIndex != summary.NoSelection || state.Cluster != nil {
		t.Fatalf("expected no selection, got %+v", state)
	}

	raw, ok, err := sessions.Get(ctx, id, summary.SelectedKey)
	if err != nil || !ok || raw != "-1" {
		t.Fatalf("expected cleared selection to be stored, got %q %v %v", raw, ok, err)
	}

	state, err = svc.State(ctx, id)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.SelectedIndex != summary.NoSelection {
		t.Fatalf("cleared selection must survive reload, got %d", state.SelectedIndex)
	}
}

func TestSummaryService_SelectErrors(t *testing.T) {
	svc, _ := newSummaryService(t)
	ctx := context.Background()
	id := session.NewID()

	tests := []struct {
		name string
		req  models.SelectRequest
		want error
	}{
		{"name and index", models.SelectRequest{Name: "alpha", Index: intPtr(0)}, models.ErrInvalidRequest},
		{"unknown name", models.SelectRequest{Name: "nope"}, models.ErrClusterNotFound},
		{"index out of range", models.SelectRequest{Index: intPtr(5)}, models.ErrClusterNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Select(ctx, id, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	state, err := svc.State(ctx, id)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.SelectedIndex != 0 {
		t.Fatalf("failed selections must not change state, got %d", state.SelectedIndex)
	}
}

func TestSummaryService_PojoTabResetOnSelection(t *testing.T) {
	svc, _ := newSummaryService(t)
	ctx := context.Background()
	id := session.NewID()

	state, err := svc.SetTab(ctx, id, models.TabGroupClient, summary.PojoTabIndex)
	if err != nil {
		t.Fatalf("SetTab failed: %v", err)
	}
	if state.TabsClient.ActiveTab != summary.PojoTabIndex {
		t.Fatalf("expected POJO tab active, got %d", state.TabsClient.ActiveTab)
	}

	state, err = svc.Select(ctx, id, models.SelectRequest{Name: "beta"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if state.TabsClient.ActiveTab != 0 {
		t.Fatalf("expected client tab reset, got %d", state.TabsClient.ActiveTab)
	}

	if _, err := svc.SetTab(ctx, id, models.TabGroupClient, summary.PojoTabIndex); !errors.Is(err, models.ErrInvalidTab) {
		t.Fatalf("expected ErrInvalidTab for POJO tab without POJO store, got %v", err)
	}
	if _, err := svc.SetTab(ctx, id, "sidebar", 0); !errors.Is(err, models.ErrInvalidTab) {
		t.Fatalf("expected ErrInvalidTab for unknown group, got %v", err)
	}

	if _, err := svc.SetTab(ctx, id, models.TabGroupServer, 2); err != nil {
		t.Fatalf("SetTab failed: %v", err)
	}
	state, err = svc.State(ctx, id)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.TabsServer.ActiveTab != 2 {
		t.Fatalf("server tab not restored, got %d", state.TabsServer.ActiveTab)
	}
}

func TestSummaryService_Export(t *testing.T) {
	svc, _ := newSummaryService(t)
	ctx := context.Background()
	id := session.NewID()

	res, err := svc.Export(ctx, id)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if res.FileName != "alpha-configuration.zip" {
		t.Fatalf("unexpected file name %q", res.FileName)
	}

	if _, err := svc.Select(ctx, id, models.SelectRequest{}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := svc.Export(ctx, id); !errors.Is(err, models.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}
