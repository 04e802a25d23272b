package ui

import "testing"

func TestGetThemeFallsBack(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Dracula" {
		t.Fatalf("GetTheme fallback = %q, want Dracula", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	name := ThemeNames()[0]
	seen := map[string]bool{}
	for range ThemeNames() {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != ThemeNames()[0] || len(seen) != len(ThemeNames()) {
		t.Fatalf("cycle ended at %q after visiting %v", name, seen)
	}
	if got := NextTheme("unknown"); got != ThemeNames()[0] {
		t.Fatalf("NextTheme(unknown) = %q", got)
	}
}

func TestThemesDefineTriggerBadges(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, kind := range []string{"always", "deps", "once", "mounted", "unmounted", "leak"} {
			if th.BadgeColors[kind] == "" {
				t.Errorf("%s: missing badge color %q", name, kind)
			}
		}
	}
}
