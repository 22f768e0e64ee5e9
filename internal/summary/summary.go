// Package summary implements the state of the cluster summary screen: which
// cluster is selected and which tab of each tab group is active.
//
// The view-model is single-owner and synchronous. The selected index is
// persisted through a Store so that a later Load restores the selection.
package summary

import (
	"context"
	"fmt"
	"strconv"

	"gridcfg.io/console/models"
)

const (
	// SelectedKey is the store key holding the selected cluster index.
	SelectedKey = "summarySelectedId"

	// Store keys holding the active tab of each tab group.
	tabKeyServer = "summaryTabServer"
	tabKeyClient = "summaryTabClient"

	// PojoTabIndex is the client tab showing POJO classes. It is only
	// available for clusters with a POJO store.
	PojoTabIndex = 3

	// TabCount is the number of tabs in each tab group.
	TabCount = 4

	// NoSelection is the selected index when no cluster is selected.
	NoSelection = -1
)

// Store is a session-scoped string key-value store.
type Store interface {
	// Get returns the value of key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
}

// ViewModel holds the selection and tab state of the summary screen.
type ViewModel struct {
	store Store

	clusters []models.Cluster
	selected int

	tabsServer models.TabState
	tabsClient models.TabState
}

// New creates an empty view-model persisting its selection to store.
func New(store Store) *ViewModel {
	return &ViewModel{
		store:    store,
		selected: NoSelection,
	}
}

// Load replaces the known cluster sequence and restores the persisted
// tabs and selection. A missing or malformed persisted index selects the
// first cluster; an index outside the sequence leaves nothing selected.
func (vm *ViewModel) Load(ctx context.Context, clusters []models.Cluster) error {
	vm.clusters = clusters
	vm.selected = NoSelection

	var err error
	if vm.tabsServer.ActiveTab, err = vm.persistedInt(ctx, tabKeyServer); err != nil {
		return err
	}
	if vm.tabsClient.ActiveTab, err = vm.persistedInt(ctx, tabKeyClient); err != nil {
		return err
	}
	vm.tabsServer.ActiveTab = clampTab(vm.tabsServer.ActiveTab)
	vm.tabsClient.ActiveTab = clampTab(vm.tabsClient.ActiveTab)

	idx, err := vm.persistedInt(ctx, SelectedKey)
	if err != nil {
		return err
	}

	if idx < 0 || idx >= len(vm.clusters) {
		return vm.SelectItem(ctx, nil)
	}

	return vm.SelectItem(ctx, &vm.clusters[idx])
}

// clampTab maps a persisted tab index outside the group to the first tab.
func clampTab(index int) int {
	if index < 0 || index >= TabCount {
		return 0
	}
	return index
}

// persistedInt reads an integer value, defaulting to 0 when it is absent or
// malformed.
func (vm *ViewModel) persistedInt(ctx context.Context, key string) (int, error) {
	raw, ok, err := vm.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return 0, nil
	}

	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return idx, nil
}

// SelectItem selects a cluster of the loaded sequence and persists its
// position. A nil cluster clears the selection and persists nothing.
//
// Clusters are matched by name. Selecting a cluster that is not part of the
// sequence returns models.ErrClusterNotFound and leaves the state unchanged.
func (vm *ViewModel) SelectItem(ctx context.Context, cluster *models.Cluster) error {
	if cluster == nil {
		vm.selected = NoSelection
		return nil
	}

	idx := vm.indexOf(cluster.Name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", models.ErrClusterNotFound, cluster.Name)
	}

	if err := vm.store.Set(ctx, SelectedKey, strconv.Itoa(idx)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", SelectedKey, err)
	}

	vm.selected = idx
	return vm.selectionChanged(ctx)
}

// SelectIndex selects the cluster at position idx.
func (vm *ViewModel) SelectIndex(ctx context.Context, idx int) error {
	if idx < 0 || idx >= len(vm.clusters) {
		return fmt.Errorf("%w: index %d", models.ErrClusterNotFound, idx)
	}
	return vm.SelectItem(ctx, &vm.clusters[idx])
}

// SelectName selects the cluster with the given name.
func (vm *ViewModel) SelectName(ctx context.Context, name string) error {
	return vm.SelectItem(ctx, &models.Cluster{Name: name})
}

// selectionChanged moves the client tab group off the POJO tab when the new
// selection has no POJO store.
func (vm *ViewModel) selectionChanged(ctx context.Context) error {
	cluster := vm.Selected()
	if cluster == nil {
		return nil
	}

	if !cluster.HasPojo() && vm.tabsClient.ActiveTab == PojoTabIndex {
		return vm.setTab(ctx, tabKeyClient, &vm.tabsClient, 0)
	}
	return nil
}

// SetTab activates a tab of a tab group.
//
// Returns models.ErrInvalidTab for an unknown group, an index outside
// [0, TabCount), or the POJO tab while the selected cluster has no POJO store.
func (vm *ViewModel) SetTab(ctx context.Context, group string, index int) error {
	if index < 0 || index >= TabCount {
		return fmt.Errorf("%w: index %d out of range", models.ErrInvalidTab, index)
	}

	switch group {
	case models.TabGroupServer:
		return vm.setTab(ctx, tabKeyServer, &vm.tabsServer, index)
	case models.TabGroupClient:
		if index == PojoTabIndex && !vm.Selected().HasPojo() {
			return fmt.Errorf("%w: selected cluster has no POJO store", models.ErrInvalidTab)
		}
		return vm.setTab(ctx, tabKeyClient, &vm.tabsClient, index)
	default:
		return fmt.Errorf("%w: unknown group %q", models.ErrInvalidTab, group)
	}
}

func (vm *ViewModel) setTab(ctx context.Context, key string, tab *models.TabState, index int) error {
	if err := vm.store.Set(ctx, key, strconv.Itoa(index)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	tab.ActiveTab = index
	return nil
}

// Tab returns the state of a tab group.
func (vm *ViewModel) Tab(group string) (models.TabState, error) {
	switch group {
	case models.TabGroupServer:
		return vm.tabsServer, nil
	case models.TabGroupClient:
		return vm.tabsClient, nil
	default:
		return models.TabState{}, fmt.Errorf("%w: unknown group %q", models.ErrInvalidTab, group)
	}
}

// Clusters returns the loaded cluster sequence.
func (vm *ViewModel) Clusters() []models.Cluster {
	return vm.clusters
}

// Selected returns the selected cluster, or nil.
func (vm *ViewModel) Selected() *models.Cluster {
	if vm.selected < 0 || vm.selected >= len(vm.clusters) {
		return nil
	}
	return &vm.clusters[vm.selected]
}

// SelectedIndex returns the position of the selection, or NoSelection.
func (vm *ViewModel) SelectedIndex() int {
	if vm.Selected() == nil {
		return NoSelection
	}
	return vm.selected
}

// State returns a snapshot of the view-model.
func (vm *ViewModel) State() models.SummaryState {
	state := models.SummaryState{
		Clusters:      make([]string, 0, len(vm.clusters)),
		SelectedIndex: vm.SelectedIndex(),
		Cluster:       vm.Selected(),
		TabsServer:    vm.tabsServer,
		TabsClient:    vm.tabsClient,
	}
	for _, c := range vm.clusters {
		state.Clusters = append(state.Clusters, c.Name)
	}
	state.HasPojo = state.Cluster.HasPojo()
	return state
}

func (vm *ViewModel) indexOf(name string) int {
	for i := range vm.clusters {
		if vm.clusters[i].Name == name {
			return i
		}
	}
	return NoSelection
}
