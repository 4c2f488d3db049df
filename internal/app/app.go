// Package app wires a table collection, its filter popups and the
// console panel into the lazykit demo program.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	bubbleshelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazykit/internal/config"
	"github.com/rebeliceyang/lazykit/internal/console"
	"github.com/rebeliceyang/lazykit/internal/datasource"
	"github.com/rebeliceyang/lazykit/internal/export"
	"github.com/rebeliceyang/lazykit/internal/filter"
	"github.com/rebeliceyang/lazykit/internal/history"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/rebeliceyang/lazykit/internal/presets"
	"github.com/rebeliceyang/lazykit/internal/table"
	"github.com/rebeliceyang/lazykit/internal/ui/components"
	"github.com/rebeliceyang/lazykit/internal/ui/help"
	"github.com/rebeliceyang/lazykit/internal/ui/theme"
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	keys   help.KeyMap
	help   bubbleshelp.Model
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	coll        *table.Collection
	fetcher     *Fetcher
	builder     *filter.Builder
	tableView   *components.TableView
	consoleView *components.ConsoleView
	buffer      *console.Buffer
	popups      []*components.FilterPopup

	tablePanel   components.Panel
	consolePanel components.Panel

	presets     *presets.Manager
	presetIndex int
	exportDir   string
	copy        func(string) error

	// Set by the filter subscriber; the next key turns it into one fetch
	filterPending bool

	status string

	showError    bool
	errorTitle   string
	errorMessage string
}

// Option configures an App
type Option func(*App)

// WithHistory records every fetch in store
func WithHistory(store *history.Store) Option {
	return func(a *App) { a.fetcher.history = store }
}

// WithPresets enables saving and applying filter presets
func WithPresets(m *presets.Manager) Option {
	return func(a *App) { a.presets = m }
}

// WithLogger sets the application logger
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
			a.fetcher.logger = l
		}
	}
}

// WithClipboard replaces the system clipboard writer
func WithClipboard(fn func(string) error) Option {
	return func(a *App) { a.copy = fn }
}

// WithExportDir sets where exported pages are written
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

// New creates the demo model over src. cols are the table's columns as
// reported by the source; every filterable column gets a popup.
func New(ctx context.Context, cfg *config.Config, src datasource.Source, cols []models.Column, opts ...Option) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	th := theme.GetTheme(cfg.UI.Theme)
	ctx, cancel := context.WithCancel(ctx)

	state := models.NewAppState()
	state.Table = cfg.Data.Table

	buf := console.NewBuffer(cfg.Console.Capacity)

	a := &App{
		state:   state,
		config:  cfg,
		theme:   th,
		keys:    help.DefaultKeyMap,
		help:    bubbleshelp.New(),
		logger:  slog.New(slog.DiscardHandler),
		ctx:     ctx,
		cancel:  cancel,
		fetcher: NewFetcher(src, cfg.Data.Table, cfg.Table.PageSize, nil, nil),
		builder: filter.NewBuilder(src.Dialect()),
		buffer:  buf,
		copy:    clipboard.WriteAll,
		tablePanel: components.Panel{
			Title: cfg.Data.Table,
			Theme: th,
		},
		consolePanel: components.Panel{Theme: th},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.coll = table.New(
		table.WithSortPreparer(a.fetcher.PrepareSort),
		table.WithFilterPreparer(a.fetcher.PrepareFilter),
		table.WithLogger(a.logger),
	)
	for _, col := range cols {
		if !col.Filterable {
			a.coll.Declare(col)
			continue
		}
		popup := components.NewFilterPopup(col, a.coll, th, src.Dialect())
		if _, err := a.coll.DeclareWithPopup(col, popup); err != nil {
			a.logger.Warn("column skipped", "field", col.Field, "error", err)
			continue
		}
		a.popups = append(a.popups, popup)
	}
	a.coll.OnFilterChanged(func() error {
		a.filterPending = true
		return nil
	})

	a.tableView = components.NewTableView(ctx, a.coll, th)
	a.tableView.PageSize = cfg.Table.PageSize
	a.tableView.MaxCellWidth = cfg.Table.MaxCellWidth
	a.tableView.MinCellWidth = cfg.Table.MinCellWidth

	a.consoleView = components.NewConsoleView(buf, th)
	a.consoleView.HeaderText = cfg.Console.HeaderText
	a.consoleView.ClearButtonText = cfg.Console.ClearButtonText

	a.updatePanelDimensions()
	return a
}

// Collection returns the table collection behind the demo
func (a *App) Collection() *table.Collection {
	return a.coll
}

// Console returns the console buffer
func (a *App) Console() *console.Buffer {
	return a.buffer
}

// StartConsole runs the console producer until the app shuts down.
// send delivers messages to the running program.
func (a *App) StartConsole(send func(tea.Msg)) {
	interval := time.Duration(a.config.Console.IntervalMs) * time.Millisecond
	p := console.NewProducer(a.buffer,
		console.WithInterval(interval),
		console.WithOnChange(func() { send(components.ConsoleUpdatedMsg{}) }),
		console.WithLogger(a.logger),
	)
	go func() {
		if err := p.Run(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("console producer stopped", "error", err)
		}
	}()
}

// Shutdown stops background work and releases subscribers
func (a *App) Shutdown() {
	a.cancel()
	a.buffer.Close()
	a.coll.Close()
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		waitForPage(a.fetcher.Results()),
		components.HookCmd(a.ctx, "filter", "", a.coll.PrepareFilter()),
	)
}

func waitForPage(ch <-chan PageLoadedMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case PageLoadedMsg:
		cmds = append(cmds, waitForPage(a.fetcher.Results()))
		if msg.Seq < a.fetcher.Latest() {
			a.logger.Debug("stale page dropped", "seq", msg.Seq, "latest", a.fetcher.Latest())
			break
		}
		a.tableView.SetPage(msg.Page.Columns, msg.Page.Rows, msg.Page.TotalRows, msg.Offset)

	case components.HookDoneMsg:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			a.ShowError("Fetch Error", fmt.Sprintf("%s request failed:\n\n%v", msg.Op, msg.Err))
		}

	case components.FilterCommittedMsg:
		switch {
		case msg.Err != nil:
			a.ShowError("Filter Error", msg.Err.Error())
		case msg.Reset:
			a.status = fmt.Sprintf("%s: filter cleared", msg.Field)
		default:
			a.status = fmt.Sprintf("%s: %d condition(s)", msg.Field, msg.Count)
		}

	case components.PageRequestMsg:
		cmds = append(cmds, components.HookCmd(a.ctx, "page", "", a.fetcher.PreparePage(msg.Offset)))

	case components.ConsoleUpdatedMsg:
		a.consoleView.Update(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()

	case tea.MouseMsg:
		if a.config.UI.MouseEnabled {
			a.handleMouse(msg)
		}

	case tea.KeyMsg:
		cmds = append(cmds, a.handleKey(msg))
	}

	if a.filterPending {
		a.filterPending = false
		cmds = append(cmds, components.HookCmd(a.ctx, "filter", "", a.coll.PrepareFilter()))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.showError {
		switch {
		case msg.String() == "esc" || msg.String() == "enter":
			a.DismissError()
		case msg.String() == "ctrl+c":
			a.Shutdown()
			return tea.Quit
		}
		return nil
	}

	if popup := a.activePopup(); popup != nil {
		_, cmd := popup.Update(msg)
		return cmd
	}

	if a.state.ViewMode == models.HelpMode {
		if key.Matches(msg, a.keys.Help, a.keys.Quit) || msg.String() == "esc" {
			a.state.ViewMode = models.NormalMode
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.Shutdown()
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.state.ViewMode = models.HelpMode
		return nil
	case key.Matches(msg, a.keys.FocusToggle):
		if a.state.FocusedPanel == models.TablePanel {
			a.state.FocusedPanel = models.ConsolePanel
		} else {
			a.state.FocusedPanel = models.TablePanel
		}
		return nil
	case key.Matches(msg, a.keys.Refresh):
		return components.HookCmd(a.ctx, "filter", "", a.coll.PrepareFilter())
	}

	if a.state.FocusedPanel == models.ConsolePanel {
		a.consoleView.Update(msg)
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.ResetAll):
		a.resetAll()
		return nil
	case key.Matches(msg, a.keys.CopyWhere):
		a.copyWhere()
		return nil
	case key.Matches(msg, a.keys.SavePreset):
		a.savePreset()
		return nil
	case key.Matches(msg, a.keys.NextPreset):
		a.applyNextPreset()
		return nil
	case key.Matches(msg, a.keys.Export):
		a.exportPage()
		return nil
	}

	_, cmd := a.tableView.Update(msg)
	if field, order := a.coll.SortState(); field != a.state.CurrentSort || order != a.state.SortOrder {
		a.state.CurrentSort, a.state.SortOrder = field, order
	}
	return cmd
}

// handleMouse maps clicks on the table header and the console's clear
// button. Panels start below the one-line top bar; their border and
// title take the next two rows.
func (a *App) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	if a.showError || a.activePopup() != nil || a.state.ViewMode != models.NormalMode {
		return
	}

	tableHeaderY := 1 + 2
	consoleHeaderY := 1 + a.tablePanel.Height + 1
	switch msg.Y {
	case tableHeaderY:
		if a.tableView.HeaderClick(msg.X - 1) {
			a.state.FocusedPanel = models.TablePanel
		}
	case consoleHeaderY:
		a.consoleView.ClearButtonHit(msg.X - 1)
	}
}

func (a *App) activePopup() *components.FilterPopup {
	for _, p := range a.popups {
		if p.Visible() {
			return p
		}
	}
	return nil
}

func (a *App) resetAll() {
	for _, field := range a.coll.FilteredFields() {
		if _, err := a.coll.ResetFilter(field); err != nil {
			a.ShowError("Filter Error", err.Error())
			return
		}
	}
	a.status = "all filters cleared"
}

func (a *App) copyWhere() {
	where, args, err := a.builder.BuildWhere(a.coll.GetFilters())
	if err != nil {
		a.ShowError("Filter Error", err.Error())
		return
	}
	if where == "" {
		a.status = "no active filters"
		return
	}
	text := where
	if len(args) > 0 {
		text = fmt.Sprintf("%s -- args: %v", where, args)
	}
	if err := a.copy(text); err != nil {
		a.ShowError("Clipboard Error", err.Error())
		return
	}
	a.status = "WHERE clause copied"
}

func (a *App) savePreset() {
	if a.presets == nil {
		a.status = "presets disabled"
		return
	}
	name := fmt.Sprintf("%s filter %d", a.state.Table, len(a.presets.ForTable(a.state.Table))+1)
	p, err := a.presets.Add(name, strings.Join(a.coll.FilteredFields(), ", "), a.state.Table, a.coll)
	if err != nil {
		a.ShowError("Preset Error", err.Error())
		return
	}
	a.status = fmt.Sprintf("saved preset %q", p.Name)
}

func (a *App) applyNextPreset() {
	if a.presets == nil {
		a.status = "presets disabled"
		return
	}
	list := a.presets.ForTable(a.state.Table)
	if len(list) == 0 {
		a.status = "no presets for " + a.state.Table
		return
	}
	p := list[a.presetIndex%len(list)]
	a.presetIndex++
	if err := a.presets.Apply(p.ID, a.coll); err != nil {
		a.ShowError("Preset Error", err.Error())
		return
	}
	a.status = fmt.Sprintf("applied preset %q", p.Name)
}

func (a *App) exportPage() {
	cols := a.coll.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Field
	}
	name := fmt.Sprintf("%s-%s.csv", a.state.Table, time.Now().Format("20060102-150405"))
	path := filepath.Join(a.exportDir, name)
	if err := export.ExportToCSV(names, a.tableView.Rows, path); err != nil {
		a.ShowError("Export Error", err.Error())
		return
	}
	a.status = "exported " + path
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.renderError(),
		)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme)
	}

	if popup := a.activePopup(); popup != nil {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			popup.View(),
		)
	}

	return a.renderNormalView()
}

func (a *App) renderNormalView() string {
	topBarLeft := "lazykit │ " + a.state.Table
	topBarRight := ""
	if n := len(a.coll.FilteredFields()); n > 0 {
		topBarRight = fmt.Sprintf("%d filtered column(s)", n)
	}
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(a.formatStatusBar(topBarLeft, topBarRight))

	a.help.Width = a.state.Width - 4
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(a.help.ShortHelpView(a.keys.ShortHelp()), a.status))

	a.tablePanel.Focused = a.state.FocusedPanel == models.TablePanel
	a.tablePanel.Content = a.tableView.View()
	a.consolePanel.Focused = a.state.FocusedPanel == models.ConsolePanel
	a.consolePanel.Content = a.consoleView.View()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		a.tablePanel.View(),
		a.consolePanel.View(),
		bottomBar,
	)
}

func (a *App) renderError() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Error).Render(a.errorTitle)
	hint := lipgloss.NewStyle().Foreground(a.theme.Muted).Render("Enter/Esc to dismiss")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.Error).
		Padding(1, 2).
		Width(min(60, max(a.state.Width-4, 20))).
		Render(title + "\n\n" + a.errorMessage + "\n\n" + hint)
}

// updatePanelDimensions splits the space between the top and bottom bars
// into the table panel and a console panel tall enough for the buffer.
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	contentHeight := max(a.state.Height-2, 10)

	// Border, header, one line per buffered message
	consoleHeight := min(a.buffer.Capacity()+3, contentHeight/2)
	tableHeight := contentHeight - consoleHeight

	a.tablePanel.Width = a.state.Width
	a.tablePanel.Height = tableHeight
	a.consolePanel.Width = a.state.Width
	a.consolePanel.Height = consoleHeight

	// Inside the border; the table panel also has a title row
	a.tableView.Width = a.state.Width - 2
	a.tableView.Height = tableHeight - 3
	a.consoleView.Width = a.state.Width - 2
	a.consoleView.Height = consoleHeight - 2
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	availableWidth := max(a.state.Width-4, 0)

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	if leftLen+rightLen >= availableWidth {
		return left
	}
	return left + strings.Repeat(" ", availableWidth-leftLen-rightLen) + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.logger.Error(title, "message", message)
	a.errorTitle = title
	a.errorMessage = message
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
