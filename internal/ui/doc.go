// Package ui provides the terminal front end for sluggish.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never touches reactive state directly:
// every key press becomes a call on the Actions interface, which the demo App
// implements by posting the write to its runtime loop. Rendering reads the
// latest state.Snapshot, fetched from the Store on a polling tick.
//
// # Package Structure
//
//   - app.go: Model, Update, key dispatch, polling commands and Run
//   - view.go: layout and rendering of the main screen
//   - help.go: help overlay built from the key map
//   - keys.go: key bindings
//   - theme.go: color themes and Lipgloss styles
//
// # Screen
//
//   - Header: cycle number, counter, memoization, tracking mode, context builds
//   - Search line: current term with dataset, filter and calculator counters
//   - Panel bar: mounted state of the five feature panels (keys 1-5)
//   - List: the visible filtered rows
//   - Side column: memory, network, events, nested state, effects and timers
//   - Log panel (L): tail of the JSON log file, parsed by logtail
//
// # Input
//
// Typing in the search box sends SetSearch on every keystroke that changes
// the value, so each character is a state write and a full recomputation.
// Mouse motion is forwarded as pointer events and window resizes as resize
// events; these feed the listeners the events panel registers.
//
// # Preferences
//
// Cycling the UI theme (T) or toggling the log panel (L) saves both settings
// to the prefs file. Errors saving are ignored.
package ui
