package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanclaw/watchfilter/internal/history"
	"github.com/stefanclaw/watchfilter/internal/log"
	"github.com/stefanclaw/watchfilter/internal/rowfilter"
	"github.com/stefanclaw/watchfilter/internal/update"
	"github.com/stefanclaw/watchfilter/internal/watchlist"
)

// loadTimeout bounds a single source load.
const loadTimeout = 30 * time.Second

const reloadingNotice = "Reloading..."

// recallLimit bounds how many saved queries up/down can step through.
const recallLimit = 100

// Options configures the TUI.
type Options struct {
	Source    watchlist.Source
	Watchlist string // only show this watchlist; empty shows all
	Filter    rowfilter.Filter
	Formatter watchlist.Formatter
	History   *history.Store // nil disables history
	Query     string         // initial filter text

	Watch    bool
	Debounce time.Duration

	Theme    string // glamour style name, or "auto"
	ShowHelp bool

	Version     string
	CheckUpdate bool
}

// RowsLoadedMsg carries a freshly loaded set of trades.
type RowsLoadedMsg struct {
	Trades []watchlist.Trade
}

// LoadErrMsg carries a source load error.
type LoadErrMsg struct {
	Err error
}

// SourceChangedMsg signals that the source file changed on disk.
type SourceChangedMsg struct{}

// WatchStartedMsg carries the change channel once the watcher is running.
type WatchStartedMsg struct {
	Ch  <-chan struct{}
	Err error
}

// UpdateCheckMsg carries the result of a background update check.
type UpdateCheckMsg struct {
	Result *update.Result
	Err    error
}

// Model is the Bubble Tea model for the filtered trade table.
type Model struct {
	options Options
	keys    keyMap
	input   textinput.Model
	table   table.Model
	help    help.Model
	history *history.Cursor

	rows    []*tradeRow
	visible int
	loaded  bool

	width    int
	height   int
	ready    bool
	quitting bool
	showHelp bool

	notice string
	err    error

	mdRenderer *glamour.TermRenderer
	helpView   string

	watchCtx    context.Context
	watchCancel context.CancelFunc
	changes     <-chan struct{}
}

// New creates a new TUI model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter rows... (words match whole words, any order)"
	ti.Prompt = inputPromptStyle.Render("filter> ")
	ti.CharLimit = 256
	ti.SetValue(opts.Query)
	ti.CursorEnd()
	ti.Focus()

	tbl := table.New(
		table.WithColumns(columnWidths(watchlist.Columns(), nil, 0)),
		table.WithFocused(false),
		table.WithHeight(10),
	)
	tbl.SetStyles(tableStyles(false))

	var queries []string
	if opts.History != nil {
		var err error
		queries, err = opts.History.Recent(recallLimit)
		if err != nil {
			log.Warnf("reading query history: %v", err)
		}
		slices.Reverse(queries)
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		options:     opts,
		keys:        defaultKeyMap(),
		input:       ti,
		table:       tbl,
		help:        help.New(),
		history:     history.NewCursor(queries),
		mdRenderer:  newRenderer(opts.Theme),
		watchCtx:    ctx,
		watchCancel: cancel,
	}
	if opts.ShowHelp {
		m.openHelp()
	}
	return m
}

func newRenderer(theme string) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	if theme != "" && theme != "auto" {
		style = glamour.WithStandardStyle(theme)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(76))
	if err != nil {
		log.Warnf("creating markdown renderer: %v", err)
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.loadRows()}
	if m.options.Watch && m.options.Source != nil {
		cmds = append(cmds, m.startWatch())
	}
	if m.options.CheckUpdate && update.IsRelease(m.options.Version) {
		cmds = append(cmds, m.checkForUpdate())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.input.Width = max(10, m.width-lipgloss.Width(m.input.Prompt)-1)
		m.help.Width = m.width
		m.layout()
		return m, nil

	case RowsLoadedMsg:
		m.rows = newTradeRows(msg.Trades, m.options.Formatter)
		m.loaded = true
		m.err = nil
		m.refilter()
		if m.notice == reloadingNotice {
			m.notice = fmt.Sprintf("Reloaded %d rows.", len(m.rows))
		}
		log.Infof("loaded %d rows from %s", len(m.rows), m.sourceName())
		return m, nil

	case LoadErrMsg:
		m.err = msg.Err
		log.Errorf("loading %s: %v", m.sourceName(), msg.Err)
		return m, nil

	case WatchStartedMsg:
		if msg.Err != nil {
			log.Warnf("watching %s: %v", m.sourceName(), msg.Err)
			m.notice = "Not watching for changes: " + msg.Err.Error()
			return m, nil
		}
		m.changes = msg.Ch
		return m, waitForChange(m.changes)

	case SourceChangedMsg:
		m.notice = reloadingNotice
		return m, tea.Batch(m.loadRows(), waitForChange(m.changes))

	case UpdateCheckMsg:
		if msg.Err != nil {
			log.Debugf("update check: %v", msg.Err)
			return m, nil
		}
		if msg.Result != nil && msg.Result.UpdateAvailable {
			m.notice = fmt.Sprintf("Update available: v%s → v%s. Run `watchfilter update` to upgrade.",
				msg.Result.CurrentVersion, msg.Result.LatestVersion)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.input.Focused() {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.watchCancel()
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Clear) || msg.String() == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.history.Reset()
		m.refilter()
		m.table.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		return m, m.toggleFocus()

	case key.Matches(msg, m.keys.Reload):
		m.notice = reloadingNotice
		return m, m.loadRows()
	}

	if !m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.openHelp()
			return m, nil
		case key.Matches(msg, m.keys.Search):
			return m, m.toggleFocus()
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		if q, ok := m.history.Prev(m.input.Value()); ok {
			m.setQuery(q)
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if q, ok := m.history.Next(); ok {
			m.setQuery(q)
		}
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		m.commitQuery()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.history.Reset()
		m.refilter()
	}
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.input.Focused() {
		m.input.Blur()
		m.table.Focus()
		m.table.SetStyles(tableStyles(true))
		return nil
	}
	m.table.Blur()
	m.table.SetStyles(tableStyles(false))
	return m.input.Focus()
}

func (m *Model) setQuery(q string) {
	m.input.SetValue(q)
	m.input.CursorEnd()
	m.refilter()
}

// commitQuery records the current query in history.
func (m *Model) commitQuery() {
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return
	}
	m.history.Push(q)
	if m.options.History == nil {
		return
	}
	if _, err := m.options.History.Append(q); err != nil {
		log.Errorf("saving query history: %v", err)
		m.notice = "Could not save query: " + err.Error()
	}
}

// refilter re-applies the current query to every row and rebuilds the
// table from the rows left visible.
func (m *Model) refilter() {
	m.visible = m.options.Filter.Apply(m.input.Value(), filterRows(m.rows))
	m.table.SetColumns(columnWidths(watchlist.Columns(), m.rows, m.width))
	m.table.SetRows(visibleTableRows(m.rows))
	if c := m.table.Cursor(); c >= m.visible {
		m.table.SetCursor(max(0, m.visible-1))
	}
}

func (m *Model) layout() {
	// status, input, blank, notice, help
	tableH := m.height - 5
	if tableH < 3 {
		tableH = 3
	}
	m.table.SetHeight(tableH)
	m.table.SetWidth(m.width)
	m.table.SetColumns(columnWidths(watchlist.Columns(), m.rows, m.width))
}

func (m Model) sourceName() string {
	if m.options.Source == nil {
		return "no source"
	}
	return filepath.Base(m.options.Source.Path())
}

func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "Initializing..."
	}

	status := StatusBar(m.sourceName(), m.visible, len(m.rows), m.width)

	var body string
	switch {
	case m.showHelp:
		body = m.helpView
	case !m.loaded && m.err == nil:
		body = emptyStyle.Render("Loading rows...")
	case len(m.rows) > 0 && m.visible == 0:
		body = m.table.View() + "\n" + emptyStyle.Render("No rows match the filter. Press esc to clear it.")
	default:
		body = m.table.View()
	}

	var footer string
	switch {
	case m.err != nil:
		footer = errorStyle.Render("Error: " + m.err.Error())
	case m.notice != "":
		footer = noticeStyle.Render(m.notice)
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		status,
		m.input.View(),
		body,
		footer,
		m.help.View(m.keys),
	)
}

func (m *Model) openHelp() {
	m.showHelp = true
	if m.helpView != "" {
		return
	}
	content := HelpText()
	if m.mdRenderer != nil {
		if rendered, err := m.mdRenderer.Render(content); err == nil {
			content = strings.TrimSpace(rendered)
		}
	}
	m.helpView = content
}

// Visible returns the number of rows left visible by the current filter.
func (m Model) Visible() int {
	return m.visible
}

// Query returns the current filter text.
func (m Model) Query() string {
	return m.input.Value()
}

func (m Model) loadRows() tea.Cmd {
	src := m.options.Source
	name := m.options.Watchlist
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		trades, err := src.Load(ctx)
		if err != nil {
			return LoadErrMsg{Err: err}
		}
		return RowsLoadedMsg{Trades: watchlist.OnlyWatchlist(trades, name)}
	}
}

func (m Model) startWatch() tea.Cmd {
	ctx := m.watchCtx
	path := m.options.Source.Path()
	debounce := m.options.Debounce
	return func() tea.Msg {
		ch, err := watchlist.Watch(ctx, path, debounce)
		return WatchStartedMsg{Ch: ch, Err: err}
	}
}

// waitForChange blocks until the watcher reports a change. A closed
// channel ends the loop.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return SourceChangedMsg{}
	}
}

func (m Model) checkForUpdate() tea.Cmd {
	version := m.options.Version
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		res, err := update.Check(ctx, version)
		return UpdateCheckMsg{Result: res, Err: err}
	}
}
