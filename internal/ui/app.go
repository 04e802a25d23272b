package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sluggish/internal/logtail"
	"github.com/five82/sluggish/internal/prefs"
	"github.com/five82/sluggish/internal/state"
)

// Actions are the user actions the UI can trigger. Every call must be safe
// from the Bubble Tea goroutine; the demo App satisfies this by posting each
// action to its runtime loop.
type Actions interface {
	Increment()
	SetSearch(term string)
	UpdateItem(id int)
	GenerateLargeData()
	ClearLargeData()
	AddRandomUser()
	ToggleTheme()
	ToggleEmail()
	ToggleMemoize()
	TogglePanel(name string)
	ResetLeaks()
	ForceRender()
	Pointer(x, y int)
	Scroll(y int)
	Resize(w, h int)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Actions   Actions
	Store     *state.Store
	Panels    []string // panel names bound to keys 1..n
	LogPath   string
	PollTick  time.Duration
	ThemeName string
	ShowLogs  bool
	PrefsPath string
}

const logTailLines = 200

// Model is the root application state for Bubble Tea.
type Model struct {
	actions   Actions
	store     *state.Store
	panels    []string
	logPath   string
	prefsPath string
	pollTick  time.Duration

	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool

	snapshot    state.Snapshot
	lastUpdated time.Time

	searching bool
	search    textinput.Model

	list    viewport.Model
	logView viewport.Model
	logs    []logtail.Entry
	logErr  error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = 100 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter items..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return Model{
		actions:   opts.Actions,
		store:     opts.Store,
		panels:    opts.Panels,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		showLogs:  opts.ShowLogs,
		search:    ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showLogs && m.logPath != "" {
		cmds = append(cmds, tailLogCmd(m.logPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion {
			m.act(func(a Actions) { a.Pointer(msg.X, msg.Y) })
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.list = viewport.New(0, 0)
			m.logView = viewport.New(0, 0)
		}
		m.ready = true
		m.act(func(a Actions) { a.Resize(msg.Width, msg.Height) })
		m.layout()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.refreshList()
		return m, nil

	case logTailMsg:
		m.logs = msg.entries
		m.logErr = msg.err
		m.refreshLogView()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.savePrefs()
		m.layout()
		if m.showLogs && m.logPath != "" {
			return m, tailLogCmd(m.logPath)
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.snapshot.SearchTerm)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Increment):
		m.act(Actions.Increment)

	case key.Matches(msg, m.keys.UpdateItem):
		id := 0
		if len(m.snapshot.Visible) > 0 {
			id = m.snapshot.Visible[0].ID
		}
		m.act(func(a Actions) { a.UpdateItem(id) })

	case key.Matches(msg, m.keys.Generate):
		m.act(Actions.GenerateLargeData)

	case key.Matches(msg, m.keys.Clear):
		m.act(Actions.ClearLargeData)

	case key.Matches(msg, m.keys.AddUser):
		m.act(Actions.AddRandomUser)

	case key.Matches(msg, m.keys.Theme):
		m.act(Actions.ToggleTheme)

	case key.Matches(msg, m.keys.Email):
		m.act(Actions.ToggleEmail)

	case key.Matches(msg, m.keys.Memoize):
		m.act(Actions.ToggleMemoize)

	case key.Matches(msg, m.keys.Panel):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(m.panels) {
			name := m.panels[idx]
			m.act(func(a Actions) { a.TogglePanel(name) })
		}

	case key.Matches(msg, m.keys.ResetLeaks):
		m.act(Actions.ResetLeaks)

	case key.Matches(msg, m.keys.ForceRender):
		m.act(Actions.ForceRender)

	case key.Matches(msg, m.keys.Up):
		m.list.ScrollUp(1)

	case key.Matches(msg, m.keys.Down):
		m.list.ScrollDown(1)

	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
		y := m.list.YOffset
		m.act(func(a Actions) { a.Scroll(y) })

	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
		y := m.list.YOffset
		m.act(func(a Actions) { a.Scroll(y) })
	}

	return m, nil
}

// handleSearchKey forwards keystrokes to the search input. Every keystroke
// that changes the value is a state write.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != before {
		m.act(func(a Actions) { a.SetSearch(term) })
	}
	return m, cmd
}

func (m Model) act(fn func(Actions)) {
	if m.actions != nil {
		fn(m.actions)
	}
}

func (m Model) savePrefs() {
	if m.prefsPath != "" {
		_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowLogs: m.showLogs})
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showLogs && m.logPath != "" {
		cmds = append(cmds, tailLogCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type logTailMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func tailLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, logTailLines)
		return logTailMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is done.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
