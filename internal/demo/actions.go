package demo

import (
	"go.uber.org/zap"

	"github.com/five82/sluggish/internal/nested"
	"github.com/five82/sluggish/internal/runtime"
)

// The methods below are the user actions. They are safe to call from any
// goroutine: each one posts a task to the runtime loop.

// Increment adds one to the counter.
func (a *App) Increment() {
	a.rt.Post(func() { a.counter.Update(func(n int) int { return n + 1 }) })
}

// SetSearch replaces the search term. The UI calls it on every keystroke.
func (a *App) SetSearch(term string) {
	a.rt.Post(func() { a.searchTerm.Set(term) })
}

// UpdateItem records an item update.
func (a *App) UpdateItem(id int) {
	a.rt.Post(func() {
		a.log.Debug("item updated", zap.Int("id", id))
		a.updateCounter.Update(func(n int) int { return n + 1 })
	})
}

// GenerateLargeData appends one batch to the accumulator.
func (a *App) GenerateLargeData() {
	a.rt.Post(func() {
		mem := a.panels[PanelMemory].(*memoryPanel)
		mem.generate()
		a.log.Info("large data generated", zap.Int("count", len(mem.items.Get())))
	})
}

// ClearLargeData empties the accumulator.
func (a *App) ClearLargeData() {
	a.rt.Post(func() {
		a.panels[PanelMemory].(*memoryPanel).clear()
		a.log.Info("large data cleared")
	})
}

// AddRandomUser appends a random user to the nested state.
func (a *App) AddRandomUser() {
	a.rt.Post(func() {
		a.applyNested(nested.PathAddUser, nested.RandomUser(a.rng, a.now()))
	})
}

// ToggleTheme flips the nested theme setting.
func (a *App) ToggleTheme() {
	a.rt.Post(func() {
		next, err := a.updater.ToggleTheme(a.complex.Get())
		if err != nil {
			a.log.Error("toggle theme", zap.Error(err))
			return
		}
		a.complex.Set(next)
	})
}

// ToggleEmail flips the email notification flag.
func (a *App) ToggleEmail() {
	a.rt.Post(func() {
		email := a.complex.Get().Metadata.Settings.Notifications.Email
		a.applyNested(nested.PathEmail, !email)
	})
}

// UpdateNested applies an arbitrary path update. Errors are logged and leave
// the state unchanged.
func (a *App) UpdateNested(path nested.Path, value any) {
	a.rt.Post(func() { a.applyNested(path, value) })
}

func (a *App) applyNested(path nested.Path, value any) {
	next, err := a.updater.Update(a.complex.Get(), path, value)
	if err != nil {
		a.log.Error("nested update", zap.String("path", string(path)), zap.Error(err))
		return
	}
	a.complex.Set(next)
}

// ToggleMemoize switches the derivation engine between recompute-everything
// and cached.
func (a *App) ToggleMemoize() {
	a.rt.Post(func() {
		on := !a.memoize.Get()
		a.engine.SetMemoize(on)
		a.memoize.Set(on)
		a.log.Info("memoization toggled", zap.Bool("enabled", on))
	})
}

// TogglePanel mounts or unmounts the named panel.
func (a *App) TogglePanel(name string) {
	a.rt.Post(func() {
		if _, ok := a.panels[name]; !ok {
			a.log.Warn("unknown panel", zap.String("panel", name))
			return
		}
		a.toggles.Update(func(m map[string]bool) map[string]bool { return toggled(m, name) })
		a.reconcile()
	})
}

// ResetLeaks clears the timers and listeners no mounted panel still owns.
func (a *App) ResetLeaks() {
	a.rt.Post(func() {
		a.rt.ResetLeaks()
		a.rt.ForceRender()
	})
}

// ForceRender runs a cycle without writing state.
func (a *App) ForceRender() {
	a.rt.Post(a.rt.ForceRender)
}

// Hover simulates the pointer entering or leaving a hover cell.
func (a *App) Hover(cell int, enter bool) {
	a.rt.Post(func() { a.panels[PanelEvents].(*eventPanel).hover(cell, enter) })
}

// Pointer dispatches a pointer-move event.
func (a *App) Pointer(x, y int) {
	a.rt.Dispatch(runtime.Event{Kind: runtime.PointerMove, X: x, Y: y})
}

// Scroll dispatches a scroll event.
func (a *App) Scroll(y int) {
	a.rt.Dispatch(runtime.Event{Kind: runtime.Scroll, ScrollY: y})
}

// Resize dispatches a resize event.
func (a *App) Resize(w, h int) {
	a.rt.Dispatch(runtime.Event{Kind: runtime.Resize, Width: w, Height: h})
}

// FetchCount returns the number of requests issued so far.
func (a *App) FetchCount() int { return int(a.network.fetches.Load()) }

// FetchFailures returns the number of failed requests.
func (a *App) FetchFailures() int { return int(a.network.failures.Load()) }

// WaitFetches blocks until every issued request has returned. Results are
// posted to the loop and still need a Drain.
func (a *App) WaitFetches() { a.network.inflight.Wait() }

// LargeCount returns the accumulator length. Loop goroutine only.
func (a *App) LargeCount() int {
	return len(a.panels[PanelMemory].(*memoryPanel).items.Get())
}

// Complex returns the current nested state root. Loop goroutine only.
func (a *App) Complex() *nested.ComplexState { return a.complex.Get() }
