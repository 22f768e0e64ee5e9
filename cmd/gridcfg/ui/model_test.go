package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridcfg.io/console/models"
	"gridcfg.io/console/sdk"
)

// fakeConsole keeps summary state in memory.
type fakeConsole struct {
	clusters []models.Cluster
	state    models.SummaryState
	failNext error
}

func newFakeConsole() *fakeConsole {
	clusters := []models.Cluster{
		{
			Name: "alpha",
			Caches: []models.CacheConfig{{
				Name:         "people",
				StoreFactory: &models.StoreFactory{Kind: models.StoreFactoryJdbcPojo, DataSourceBean: "dsH2", Dialect: "H2"},
				Metadatas: []models.TypeMetadata{{
					KeyType:       "java.lang.Integer",
					ValueType:     "org.example.Person",
					DatabaseTable: "PERSON",
					ValueFields:   []models.Field{{JavaName: "name", JavaType: "java.lang.String", DatabaseName: "NAME", DatabaseType: "VARCHAR"}},
				}},
			}},
		},
		{Name: "beta", Discovery: models.DiscoveryConfig{Kind: "Multicast"}},
	}

	f := &fakeConsole{clusters: clusters}
	f.state.Clusters = []string{"alpha", "beta"}
	f.selectIndex(0)
	return f
}

func (f *fakeConsole) selectIndex(i int) {
	f.state.SelectedIndex = i
	f.state.Cluster = nil
	f.state.HasPojo = false
	if i >= 0 {
		f.state.Cluster = &f.clusters[i]
		f.state.HasPojo = f.state.Cluster.HasPojo()
	}
	if !f.state.HasPojo && f.state.TabsClient.ActiveTab == 3 {
		f.state.TabsClient.ActiveTab = 0
	}
}

func (f *fakeConsole) result() (*models.SummaryState, error) {
	if err := f.failNext; err != nil {
		f.failNext = nil
		return nil, err
	}
	state := f.state
	return &state, nil
}

func (f *fakeConsole) Summary(context.Context) (*models.SummaryState, error) {
	return f.result()
}

func (f *fakeConsole) SelectIndex(_ context.Context, index int) (*models.SummaryState, error) {
	if index < 0 || index >= len(f.clusters) {
		return nil, models.ErrClusterNotFound
	}
	f.selectIndex(index)
	return f.result()
}

func (f *fakeConsole) ClearSelection(context.Context) (*models.SummaryState, error) {
	f.selectIndex(-1)
	return f.result()
}

func (f *fakeConsole) SetTab(_ context.Context, group string, index int) (*models.SummaryState, error) {
	if group == models.TabGroupClient {
		f.state.TabsClient.ActiveTab = index
	} else {
		f.state.TabsServer.ActiveTab = index
	}
	return f.result()
}

func (f *fakeConsole) DownloadBundle(context.Context) (*sdk.Bundle, error) {
	if f.state.Cluster == nil {
		return nil, models.ErrNoSelection
	}
	return &sdk.Bundle{
		FileName: f.state.Cluster.Name + "-configuration.zip",
		Data:     []byte("zip"),
	}, nil
}

// run feeds msg to the model and executes returned commands until the model
// settles. Batched commands are expanded; spinner ticks are dropped.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, cmd := m.Update(msg)
	m = next.(Model)

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		switch out := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, out...)
		case stateMsg, errMsg, savedMsg:
			next, more := m.Update(out)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, console Console, opts Options) Model {
	t.Helper()

	m := New(context.Background(), console, opts)
	m = run(t, m, tea.WindowSizeMsg{Width: 200, Height: 200})
	m = run(t, m, m.load()())
	require.NotNil(t, m.State())
	return m
}

func TestModel_LoadsState(t *testing.T) {
	m := loaded(t, newFakeConsole(), Options{})

	assert.Equal(t, []string{"alpha", "beta"}, m.State().Clusters)
	assert.Equal(t, 0, m.State().SelectedIndex)

	view := m.View()
	assert.Contains(t, view, "▸ alpha")
	assert.Contains(t, view, "org.apache.ignite.configuration.IgniteConfiguration")
}

func TestModel_LoadError(t *testing.T) {
	console := newFakeConsole()
	console.failNext = errors.New("connection refused")

	m := New(context.Background(), console, Options{})
	m = run(t, m, m.load()())

	assert.Nil(t, m.State())
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "connection refused")
}

func TestModel_MovesSelection(t *testing.T) {
	console := newFakeConsole()
	m := loaded(t, console, Options{})

	m = run(t, m, keyPress("down"))
	assert.Equal(t, 1, m.State().SelectedIndex)
	assert.Equal(t, "beta", m.State().Cluster.Name)

	// Moving past the end keeps the selection.
	m = run(t, m, keyPress("j"))
	assert.Equal(t, 1, m.State().SelectedIndex)

	m = run(t, m, keyPress("x"))
	assert.Equal(t, -1, m.State().SelectedIndex)
	assert.Contains(t, m.View(), "No cluster selected")

	m = run(t, m, keyPress("up"))
	assert.Equal(t, 1, m.State().SelectedIndex, "up without selection starts at the last cluster")
}

func TestModel_TabsSkipPojoWithoutPojoStore(t *testing.T) {
	console := newFakeConsole()
	m := loaded(t, console, Options{})

	m = run(t, m, keyPress("tab"))
	for i := 0; i < 3; i++ {
		m = run(t, m, keyPress("right"))
	}
	assert.Equal(t, 3, m.State().TabsClient.ActiveTab, "alpha has a POJO store")
	assert.Contains(t, m.View(), "class Person")

	m = run(t, m, keyPress("down"))
	assert.Equal(t, "beta", m.State().Cluster.Name)
	assert.Equal(t, 0, m.State().TabsClient.ActiveTab)

	m = run(t, m, keyPress("left"))
	assert.Equal(t, 2, m.State().TabsClient.ActiveTab, "POJO tab is skipped")
}

func TestModel_ServerTabs(t *testing.T) {
	m := loaded(t, newFakeConsole(), Options{PlatformVersion: "2.1.0"})

	m = run(t, m, keyPress("l"))
	m = run(t, m, keyPress("l"))
	assert.Equal(t, 2, m.State().TabsServer.ActiveTab)
	assert.Contains(t, m.View(), "2.1.0")

	m = run(t, m, keyPress("l"))
	m = run(t, m, keyPress("l"))
	assert.Equal(t, 0, m.State().TabsServer.ActiveTab, "tabs wrap around")
}

func TestModel_Download(t *testing.T) {
	dir := t.TempDir()
	m := loaded(t, newFakeConsole(), Options{OutputDir: dir})

	m = run(t, m, keyPress("d"))
	require.NoError(t, m.Err())

	data, err := os.ReadFile(filepath.Join(dir, "alpha-configuration.zip"))
	require.NoError(t, err)
	assert.Equal(t, "zip", string(data))
	assert.Contains(t, m.View(), "saved")

	m = run(t, m, keyPress("x"))
	m = run(t, m, keyPress("d"))
	assert.ErrorIs(t, m.Err(), models.ErrNoSelection)
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, newFakeConsole(), Options{})

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestClip(t *testing.T) {
	text := strings.Repeat("line\n", 10)

	out := clip(text, 0, 4)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "7 more lines")

	wrapped := clip("alpha beta gamma delta", 11, 0)
	assert.Equal(t, "alpha beta\ngamma delta", wrapped)
}
