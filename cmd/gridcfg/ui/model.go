package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridcfg.io/console/internal/summary"
	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
	"gridcfg.io/console/pkg/generator"
)

// Options configures the summary screen.
type Options struct {
	// OutputDir receives downloaded bundles. Empty means the working directory.
	OutputDir string

	// PlatformVersion is used by the POM preview. Empty selects the default.
	PlatformVersion string
}

type stateMsg struct{ state *models.SummaryState }

type errMsg struct{ err error }

type savedMsg struct{ path string }

// Model is the bubbletea model of the summary screen.
type Model struct {
	ctx     context.Context
	console Console
	opts    Options
	gen     *generator.Generator

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	state   *models.SummaryState
	group   string
	loading bool
	status  string
	err     error

	width  int
	height int
}

// New creates the summary screen over a console session.
func New(ctx context.Context, console Console, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	if opts.PlatformVersion == "" {
		opts.PlatformVersion = bundle.DefaultPlatformVersion
	}

	return Model{
		ctx:     ctx,
		console: console,
		opts:    opts,
		gen:     generator.New(generator.WithPlatformVersion(opts.PlatformVersion)),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		group:   models.TabGroupServer,
		loading: true,
		width:   100,
		height:  30,
	}
}

// Init starts the spinner and loads the session state.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// State returns the last loaded state, nil before the first load.
func (m Model) State() *models.SummaryState {
	return m.state
}

// Err returns the error shown on screen, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) load() tea.Cmd {
	return m.call(func(ctx context.Context) (*models.SummaryState, error) {
		return m.console.Summary(ctx)
	})
}

// call runs a state changing console call asynchronously.
func (m Model) call(fn func(context.Context) (*models.SummaryState, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		state, err := fn(ctx)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{state}
	}
}

func (m Model) download() tea.Cmd {
	ctx, console, dir := m.ctx, m.console, m.opts.OutputDir
	return func() tea.Msg {
		b, err := console.DownloadBundle(ctx)
		if err != nil {
			return errMsg{err}
		}

		path := filepath.Join(dir, b.FileName)
		if err := os.WriteFile(path, b.Data, 0o644); err != nil {
			return errMsg{fmt.Errorf("failed to save bundle: %w", err)}
		}
		return savedMsg{path}
	}
}

// Update handles messages and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		m.loading = false
		m.state = msg.state
		m.err = nil
		return m, nil

	case savedMsg:
		m.loading = false
		m.err = nil
		m.status = "saved " + msg.path
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Reload):
		cmd = m.load()
	case key.Matches(msg, m.keys.Up):
		cmd = m.move(-1)
	case key.Matches(msg, m.keys.Down):
		cmd = m.move(1)
	case key.Matches(msg, m.keys.Clear):
		cmd = m.call(func(ctx context.Context) (*models.SummaryState, error) {
			return m.console.ClearSelection(ctx)
		})
	case key.Matches(msg, m.keys.Group):
		if m.group == models.TabGroupServer {
			m.group = models.TabGroupClient
		} else {
			m.group = models.TabGroupServer
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		cmd = m.stepTab(-1)
	case key.Matches(msg, m.keys.NextTab):
		cmd = m.stepTab(1)
	case key.Matches(msg, m.keys.Download):
		if m.state == nil || m.state.Cluster == nil {
			m.err = models.ErrNoSelection
			return m, nil
		}
		cmd = m.download()
	}

	if cmd == nil {
		return m, nil
	}

	m.loading = true
	m.status = ""
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// move selects the neighbouring cluster. Without a selection it starts at
// the first or last cluster.
func (m Model) move(dir int) tea.Cmd {
	if m.state == nil || len(m.state.Clusters) == 0 {
		return nil
	}

	n := len(m.state.Clusters)
	next := m.state.SelectedIndex + dir
	if m.state.SelectedIndex == summary.NoSelection {
		next = 0
		if dir < 0 {
			next = n - 1
		}
	}
	if next < 0 || next >= n {
		return nil
	}

	return m.call(func(ctx context.Context) (*models.SummaryState, error) {
		return m.console.SelectIndex(ctx, next)
	})
}

func (m Model) stepTab(dir int) tea.Cmd {
	if m.state == nil {
		return nil
	}

	current := m.activeTab(m.group)
	next := stepTab(m.state, m.group, current, dir)
	if next == current {
		return nil
	}

	group := m.group
	return m.call(func(ctx context.Context) (*models.SummaryState, error) {
		return m.console.SetTab(ctx, group, next)
	})
}

func (m Model) activeTab(group string) int {
	if m.state == nil {
		return 0
	}
	if group == models.TabGroupClient {
		return m.state.TabsClient.ActiveTab
	}
	return m.state.TabsServer.ActiveTab
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gridcfg - cluster configuration summary"))
	b.WriteString("\n")

	if m.state == nil {
		if m.err != nil {
			b.WriteString(m.renderError())
		} else {
			b.WriteString(m.spinner.View() + " Loading clusters...")
		}
		b.WriteString("\n\n" + m.help.View(m.keys))
		return b.String()
	}

	list := m.renderList()
	detail := m.renderDetail(max(20, m.width-lipgloss.Width(list)-2))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Working...")
	case m.err != nil:
		b.WriteString(m.renderError())
	case m.status != "":
		b.WriteString(statusStyle.Render("✓ " + m.status))
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderList() string {
	if len(m.state.Clusters) == 0 {
		return listStyle.Render(dimStyle.Render("no clusters"))
	}

	lines := make([]string, 0, len(m.state.Clusters))
	for i, name := range m.state.Clusters {
		if i == m.state.SelectedIndex {
			lines = append(lines, selectedItemStyle.Render("▸ "+name))
		} else {
			lines = append(lines, itemStyle.Render("  "+name))
		}
	}
	return listStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetail(width int) string {
	cluster := m.state.Cluster
	if cluster == nil {
		return dimStyle.Render("No cluster selected. Use ↑/↓ to select one.")
	}

	var b strings.Builder
	b.WriteString(m.renderTabs(models.TabGroupServer) + "\n")
	b.WriteString(m.renderTabs(models.TabGroupClient) + "\n")

	preview, err := renderPreview(m.gen, m.opts.PlatformVersion, cluster, m.group, m.activeTab(m.group))
	if err != nil {
		preview = errorStyle.Render(wrapError(err, width-4))
	}

	height := m.height - 12
	if height < 5 {
		height = 5
	}
	b.WriteString(previewStyle.Width(width - 2).Render(clip(preview, width-4, height)))
	return b.String()
}

func (m Model) renderTabs(group string) string {
	label := "Server"
	if group == models.TabGroupClient {
		label = "Client"
	}
	if group == m.group {
		label = selectedItemStyle.Render(label + " ▾")
	} else {
		label = dimStyle.Render(label + "  ")
	}

	parts := []string{fmt.Sprintf("%-10s", label)}
	active := m.activeTab(group)
	for i, title := range tabsOf(group) {
		switch {
		case !tabEnabled(m.state, group, i):
			parts = append(parts, disabledTabStyle.Render(title))
		case i == active:
			parts = append(parts, activeTabStyle.Render(title))
		default:
			parts = append(parts, tabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) renderError() string {
	return errorStyle.Render(wrapError(m.err, m.width))
}

func wrapError(err error, width int) string {
	text := "✗ " + err.Error()
	if width > 0 {
		return clip(text, width, 0)
	}
	return text
}
