package demo

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
)

// ListenerTrigger selects the trigger set of the global listener effect.
type ListenerTrigger int

const (
	// ListenerOnce registers the listeners at mount.
	ListenerOnce ListenerTrigger = iota
	// ListenerEveryCycle registers them again after every cycle.
	ListenerEveryCycle
)

// String returns the config spelling of the trigger.
func (t ListenerTrigger) String() string {
	if t == ListenerEveryCycle {
		return "every-cycle"
	}
	return "once"
}

// ParseListenerTrigger maps a config value to a ListenerTrigger.
func ParseListenerTrigger(s string) (ListenerTrigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once":
		return ListenerOnce, nil
	case "every-cycle", "always":
		return ListenerEveryCycle, nil
	default:
		return ListenerOnce, fmt.Errorf("unknown listener trigger %q", s)
	}
}

type point struct{ X, Y int }

type size struct{ W, H int }

// eventPanel subscribes to pointer, scroll and resize events with no
// throttling. Every event writes a state cell and so starts a cycle.
type eventPanel struct {
	app *App
	log *zap.Logger

	pointer *runtime.State[point]
	scroll  *runtime.State[int]
	window  *runtime.State[size]

	listeners *runtime.Effect
	handlers  []func()
}

func newEventPanel(a *App) *eventPanel {
	return &eventPanel{
		app:     a,
		log:     a.log.Named(PanelEvents),
		pointer: runtime.NewState(a.rt, "mousePosition", point{}),
		scroll:  runtime.NewState(a.rt, "scrollPosition", 0),
		window:  runtime.NewState(a.rt, "windowSize", size{}),
	}
}

func (p *eventPanel) mount(s *runtime.Scope) {
	trigger := runtime.Once()
	if p.app.cfg.ListenerTrigger == ListenerEveryCycle {
		trigger = runtime.Always()
	}
	target := s.Runtime().Events()

	p.listeners = s.Effect("global-listeners", trigger, func() func() {
		ids := []runtime.ListenerID{
			target.AddListener(runtime.PointerMove, func(ev runtime.Event) {
				p.pointer.Set(point{X: ev.X, Y: ev.Y})
			}),
			target.AddListener(runtime.Scroll, func(ev runtime.Event) {
				p.scroll.Set(ev.ScrollY)
			}),
			target.AddListener(runtime.Resize, func(ev runtime.Event) {
				p.window.Set(size{W: ev.Width, H: ev.Height})
			}),
		}
		p.log.Debug("listeners registered", zap.Int("total", target.Total()))
		if !p.app.cfg.ListenerCleanup {
			return nil
		}
		return func() {
			for _, id := range ids {
				target.RemoveListener(id)
			}
		}
	})
}

func (p *eventPanel) render(_ *AppContext, snap *state.Snapshot) {
	// Each hover cell gets its own enter and leave closures on every render.
	cells := p.app.cfg.HoverCells
	p.handlers = make([]func(), 0, 2*cells)
	for i := range cells {
		p.handlers = append(p.handlers,
			func() { p.log.Debug("pointer entered cell", zap.Int("cell", i)) },
			func() { p.log.Debug("pointer left cell", zap.Int("cell", i)) },
		)
	}

	pos, win := p.pointer.Get(), p.window.Get()
	snap.Events.X, snap.Events.Y = pos.X, pos.Y
	snap.Events.ScrollY = p.scroll.Get()
	snap.Events.Width, snap.Events.Height = win.W, win.H
	snap.Events.Handlers = len(p.handlers)
}

func (p *eventPanel) effects() []*runtime.Effect {
	if p.listeners == nil {
		return nil
	}
	return []*runtime.Effect{p.listeners}
}

// hover invokes the enter or leave handler of a cell, as a pointer crossing it would.
func (p *eventPanel) hover(cell int, enter bool) {
	i := 2 * cell
	if !enter {
		i++
	}
	if cell >= 0 && i < len(p.handlers) {
		p.handlers[i]()
	}
}
