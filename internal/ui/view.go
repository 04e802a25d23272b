package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sluggish/internal/state"
)

const (
	sideWidth = 46
	logHeight = 8
)

// layout sizes the viewports after a resize or a panel toggle.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	// header, search line, panel bar, footer
	chrome := 4
	body := m.height - chrome
	if m.showLogs {
		body -= logHeight + 2
		m.logView.Width = max(m.width-4, 10)
		m.logView.Height = logHeight
	}
	m.list.Width = max(m.width-sideWidth-6, 20)
	m.list.Height = max(body-2, 3)
	m.help.Width = m.width
	m.refreshList()
	m.refreshLogView()
}

// refreshList renders the visible rows into the list viewport.
func (m *Model) refreshList() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	var b strings.Builder
	for i, item := range m.snapshot.Visible {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("#%-5d ", item.ID)))
		b.WriteString(styles.Text.Render(fmt.Sprintf("%-12s", item.Name)))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf(" %8.2f", item.Value)))
		b.WriteString(styles.InfoText.Render(fmt.Sprintf("  calc %.1f", item.Calc)))
	}
	if len(m.snapshot.Visible) == 0 {
		b.WriteString(styles.MutedText.Render("no items match"))
	}
	m.list.SetContent(b.String())
}

// refreshLogView renders the tailed log entries.
func (m *Model) refreshLogView() {
	if !m.ready || !m.showLogs {
		return
	}
	styles := m.theme.Styles()
	var lines []string
	if m.logErr != nil {
		lines = append(lines, styles.DangerText.Render(m.logErr.Error()))
	}
	for _, e := range m.logs {
		lines = append(lines, levelStyle(styles, e.Level).Render(e.String()))
	}
	m.logView.SetContent(strings.Join(lines, "\n"))
	m.logView.GotoBottom()
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.Text
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	rows := []string{
		m.renderHeader(styles),
		m.renderSearchLine(styles),
		m.renderPanelBar(styles),
	}

	list := styles.Panel.
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Render(m.list.View())
	side := styles.Panel.Width(sideWidth).Render(m.renderSide(styles))
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, list, side))

	if m.showLogs {
		rows = append(rows, styles.Panel.Render(m.logView.View()))
	}
	rows = append(rows, styles.Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderHeader(styles Styles) string {
	s := m.snapshot
	memo := styles.DangerText.Render("off")
	if s.Memoized {
		memo = styles.SuccessText.Render("on")
	}
	parts := []string{
		styles.Logo.Render("sluggish"),
		fmt.Sprintf("cycle %d", s.Cycle),
		fmt.Sprintf("counter %d", s.Counter),
		fmt.Sprintf("updates %d", s.UpdateCounter),
		"memo " + memo,
		"tracking " + s.Tracking,
		fmt.Sprintf("ctx %s/%d/%d", s.ContextMode, s.ContextBuilds, s.ContextChanges),
	}
	if s.Bailouts > 0 {
		parts = append(parts, styles.DangerText.Render(fmt.Sprintf("bailouts %d", s.Bailouts)))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderSearchLine(styles Styles) string {
	s := m.snapshot
	stats := styles.MutedText.Render(fmt.Sprintf(
		"%d/%d items  gen %d  filter %d  calc %d",
		s.FilteredCount, s.DatasetSize, s.Generations, s.Filterings, s.Calculations))
	if m.searching {
		return m.search.View() + "  " + stats
	}
	term := s.SearchTerm
	if term == "" {
		term = styles.FaintText.Render("(press / to search)")
	}
	return styles.AccentText.Render("search: ") + term + "  " + stats
}

func (m Model) renderPanelBar(styles Styles) string {
	parts := make([]string, 0, len(m.snapshot.Panels))
	for i, p := range m.snapshot.Panels {
		badge := "unmounted"
		if p.Mounted {
			badge = "mounted"
		}
		parts = append(parts, styles.Badge(badge).Render(fmt.Sprintf("%d %s", i+1, p.Name)))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderSide(styles Styles) string {
	s := m.snapshot
	var b strings.Builder

	section := func(title string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.Title.Render(title))
		b.WriteString("\n")
	}

	section("Memory")
	fmt.Fprintf(&b, "items %d  ~%s\n", s.Large.Count, orDash(s.Large.Footprint))

	section("Network")
	loading := ""
	if s.Network.Loading {
		loading = styles.WarningText.Render(" loading")
	}
	fmt.Fprintf(&b, "trigger %d  fetches %d  failed %d%s\n",
		s.Network.Trigger, s.Network.Fetches, s.Network.Failures, loading)
	fmt.Fprintf(&b, "loaded %d posts\n", s.Network.Loaded)
	for _, title := range s.Network.Titles {
		b.WriteString(styles.FaintText.Render(truncate("· "+title, sideWidth-4)))
		b.WriteString("\n")
	}

	section("Events")
	ev := s.Events
	fmt.Fprintf(&b, "pointer %d,%d  scroll %d  window %dx%d\n", ev.X, ev.Y, ev.ScrollY, ev.Width, ev.Height)
	fmt.Fprintf(&b, "listeners p%d s%d r%d\n", ev.Pointer, ev.Scroll, ev.Resize)
	fmt.Fprintf(&b, "events %d  handled %d\n", ev.Dispatched, ev.Handled)
	fmt.Fprintf(&b, "hover handlers %d\n", ev.Handlers)

	section("Nested state")
	c := s.Complex
	fmt.Fprintf(&b, "users %d  v%d  theme %s  lang %s  email %t\n", c.Users, c.Version, c.Theme, c.Language, c.Email)
	updated := "never"
	if c.LastUpdated != nil {
		updated = c.LastUpdated.Format("15:04:05.000")
	}
	fmt.Fprintf(&b, "mode %s  clones %d  updated %s\n", c.Mode, c.Clones, updated)
	for _, line := range c.UserLines {
		b.WriteString(styles.FaintText.Render(truncate("· "+line, sideWidth-4)))
		b.WriteString("\n")
	}

	section("Effects (runs/cleanups)")
	for _, e := range s.Effects {
		b.WriteString(styles.Badge(e.Trigger).Render(e.Trigger))
		fmt.Fprintf(&b, " %s.%s %d/%d\n", e.Scope, e.Name, e.Runs, e.Cleanups)
	}
	timers := fmt.Sprintf("timers %d  fired %d", s.ActiveTimers, s.TimersFired)
	if leaked := leakedTimers(s); leaked > 0 {
		timers += " " + styles.Badge("leak").Render(fmt.Sprintf("%d leaked", leaked))
	}
	b.WriteString(timers)
	return b.String()
}

// leakedTimers counts network intervals still registered while their panel
// is unmounted.
func leakedTimers(s state.Snapshot) int {
	mounted := make(map[string]bool, len(s.Panels))
	for _, p := range s.Panels {
		mounted[p.Name] = p.Mounted
	}
	if mounted["network"] {
		return 0
	}
	n := 0
	for _, label := range s.TimerLabels {
		if label == "network-trigger" {
			n++
		}
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
