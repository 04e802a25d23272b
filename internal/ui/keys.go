package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ToggleLogs key.Binding

	// State writes
	Increment  key.Binding
	Search     key.Binding
	UpdateItem key.Binding
	Generate   key.Binding
	Clear      key.Binding
	AddUser    key.Binding
	Theme      key.Binding
	Email      key.Binding
	Memoize    key.Binding
	Panel      key.Binding

	// Runtime
	ResetLeaks  key.Binding
	ForceRender key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Search input
	Confirm key.Binding
	Escape  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle UI theme"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log panel"),
		),

		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Increment counter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search items"),
		),
		UpdateItem: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Update item"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Generate large data"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear large data"),
		),
		AddUser: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add random user"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle state theme"),
		),
		Email: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Toggle email notifications"),
		),
		Memoize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Toggle memoization"),
		),
		Panel: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "Mount/unmount panel"),
		),

		ResetLeaks: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reset leaked timers/listeners"),
		),
		ForceRender: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Force render"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up (scroll event)"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down (scroll event)"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave search"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Increment, k.Search, k.Generate, k.Panel, k.ResetLeaks, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Increment, k.Search, k.UpdateItem, k.Memoize},
		{k.Generate, k.Clear},
		{k.AddUser, k.Theme, k.Email},
		{k.Panel, k.ResetLeaks, k.ForceRender},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.CycleTheme, k.ToggleLogs, k.Help, k.Quit},
	}
}
