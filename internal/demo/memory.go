package demo

import (
	"github.com/five82/sluggish/internal/accum"
	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
)

// memoryPanel keeps every generated batch in state until Clear.
type memoryPanel struct {
	app   *App
	acc   *accum.Accumulator
	items *runtime.State[[]accum.BigItem]
}

func newMemoryPanel(a *App) *memoryPanel {
	return &memoryPanel{
		app: a,
		acc: accum.New(
			accum.WithBatch(a.cfg.LargeBatch),
			accum.WithPayloadLen(a.cfg.PayloadLen),
			accum.WithClock(a.now),
		),
		items: runtime.NewState(a.rt, "largeDataSet", []accum.BigItem{}),
	}
}

func (p *memoryPanel) mount(*runtime.Scope) {}

func (p *memoryPanel) render(_ *AppContext, snap *state.Snapshot) {
	items := p.items.Get()
	snap.Large = state.LargeStats{Count: len(items), Footprint: accum.Footprint(items)}
}

func (p *memoryPanel) effects() []*runtime.Effect { return nil }

func (p *memoryPanel) generate() {
	p.items.Set(p.acc.Generate(p.items.Get()))
}

func (p *memoryPanel) clear() {
	p.items.Set(p.acc.Clear())
}
