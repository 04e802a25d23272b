package demo

import (
	"go.uber.org/zap"

	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
)

// dashboardPanel renders the derived list. Every cycle regenerates the
// dataset, refilters it and runs the calculator for each visible row unless
// memoization is on.
type dashboardPanel struct {
	app     *App
	log     *zap.Logger
	timeout *runtime.Effect

	lastCtx        *AppContext
	contextChanges int
}

func newDashboardPanel(a *App) *dashboardPanel {
	return &dashboardPanel{app: a, log: a.log.Named(PanelDashboard)}
}

func (p *dashboardPanel) mount(s *runtime.Scope) {
	rt := s.Runtime()
	// No trigger set: a fresh timeout after every cycle, cleared before the next.
	p.timeout = s.Effect("render-timeout", runtime.Always(), func() func() {
		counter := p.app.counter.Get()
		p.log.Debug("effect ran", zap.Int("counter", counter))
		id := rt.Timers().SetTimeout("render-timeout", p.app.cfg.EffectTimeout, func() {
			p.log.Debug("timeout fired", zap.Int("counter", counter))
		})
		return func() { rt.Timers().Clear(id) }
	})
}

func (p *dashboardPanel) render(ctx *AppContext, snap *state.Snapshot) {
	a := p.app
	// A context consumer re-renders whenever it is handed a different object.
	if ctx != p.lastCtx {
		p.lastCtx = ctx
		p.contextChanges++
	}
	snap.ContextChanges = p.contextChanges

	view := a.engine.Compute(a.searchTerm.Get())

	limit := min(a.cfg.VisibleItems, len(view.Filtered))
	visible := make([]state.VisibleItem, 0, limit)
	for _, item := range view.Filtered[:limit] {
		visible = append(visible, state.VisibleItem{
			ID:    item.ID,
			Name:  item.Name,
			Value: item.Value,
			Calc:  a.calc.Run(),
		})
	}

	snap.DatasetSize = len(view.Dataset)
	snap.FilteredCount = len(view.Filtered)
	snap.Visible = visible
	snap.Generations = a.engine.Generations()
	snap.Filterings = a.engine.Filterings()
	snap.Calculations = a.calc.Calls()
}

func (p *dashboardPanel) effects() []*runtime.Effect {
	if p.timeout == nil {
		return nil
	}
	return []*runtime.Effect{p.timeout}
}
