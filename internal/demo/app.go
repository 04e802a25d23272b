package demo

import (
	"maps"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/five82/sluggish/internal/derive"
	"github.com/five82/sluggish/internal/nested"
	"github.com/five82/sluggish/internal/placeholder"
	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
)

// Panel names, also the featureToggles keys.
const (
	PanelDashboard = "dashboard"
	PanelMemory    = "memory"
	PanelNetwork   = "network"
	PanelEvents    = "events"
	PanelComplex   = "complex"
)

// PanelNames lists the panels in display order.
var PanelNames = []string{PanelDashboard, PanelMemory, PanelNetwork, PanelEvents, PanelComplex}

// ContextMode selects how the shared AppContext is produced each cycle.
type ContextMode int

const (
	// ContextMemo rebuilds the context only when one of its fields changes.
	ContextMemo ContextMode = iota
	// ContextRebuild builds a new context object every cycle.
	ContextRebuild
)

// String returns the config spelling of the mode.
func (m ContextMode) String() string {
	if m == ContextRebuild {
		return "rebuild"
	}
	return "memo"
}

// Config tunes the panels.
type Config struct {
	DatasetSize     int
	VisibleItems    int
	CalcIterations  int
	LargeBatch      int
	PayloadLen      int
	HoverCells      int
	Memoize         bool
	CloneMode       nested.Mode
	ContextMode     ContextMode
	NetworkInterval time.Duration
	EffectTimeout   time.Duration
	ListenerTrigger ListenerTrigger
	ListenerCleanup bool
	IntervalCleanup bool
}

// DefaultConfig mirrors the sizes of the original demo.
func DefaultConfig() Config {
	return Config{
		DatasetSize:     10000,
		VisibleItems:    50,
		CalcIterations:  100000,
		LargeBatch:      10000,
		PayloadLen:      1000,
		HoverCells:      100,
		NetworkInterval: 3 * time.Second,
		EffectTimeout:   time.Second,
	}
}

// Deps are the collaborators of an App.
type Deps struct {
	Runtime *runtime.Runtime
	Fetcher placeholder.PostFetcher
	Store   *state.Store
	Logger  *zap.Logger
	Now     func() time.Time
	Rand    *rand.Rand
}

// AppContext is the value shared with every panel during a cycle.
type AppContext struct {
	Theme    string
	Toggles  map[string]bool
	Memoized bool
}

type panel interface {
	mount(s *runtime.Scope)
	render(ctx *AppContext, snap *state.Snapshot)
	effects() []*runtime.Effect
}

// App is the root of the demo: it owns UIState and mounts the feature panels
// named in featureToggles.
type App struct {
	rt    *runtime.Runtime
	log   *zap.Logger
	cfg   Config
	store *state.Store
	now   func() time.Time
	rng   *rand.Rand

	counter        *runtime.State[int]
	searchTerm     *runtime.State[string]
	updateCounter  *runtime.State[int]
	toggles        *runtime.State[map[string]bool]
	networkTrigger *runtime.State[int]
	complex        *runtime.State[*nested.ComplexState]
	memoize        *runtime.State[bool]

	engine  *derive.Engine
	calc    *derive.Calculator
	updater *nested.Updater
	appCtx  derive.Memo[*AppContext]

	panels  map[string]panel
	scopes  map[string]*runtime.Scope
	last    state.Snapshot
	mounted bool

	network *networkPanel
}

// New builds the App and registers its state cells. Call Mount before the
// runtime starts.
func New(cfg Config, deps Deps) *App {
	rt := deps.Runtime
	if rt == nil {
		rt = runtime.New(runtime.Options{Logger: deps.Logger})
	}
	logger := deps.Logger
	if logger == nil {
		logger = rt.Logger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now().UnixNano()), 0x5eed))
	}

	toggles := make(map[string]bool, len(PanelNames))
	for _, name := range PanelNames {
		toggles[name] = true
	}

	a := &App{
		rt:     rt,
		log:    logger,
		cfg:    cfg,
		store:  deps.Store,
		now:    now,
		rng:    rng,
		panels: make(map[string]panel),
		scopes: make(map[string]*runtime.Scope),
	}
	a.counter = runtime.NewState(rt, "counter", 0)
	a.searchTerm = runtime.NewState(rt, "searchTerm", "")
	a.updateCounter = runtime.NewState(rt, "updateCounter", 0)
	a.toggles = runtime.NewState(rt, "featureToggles", toggles)
	a.networkTrigger = runtime.NewState(rt, "networkTrigger", 0)
	a.complex = runtime.NewState(rt, "complexState", nested.Initial())
	a.memoize = runtime.NewState(rt, "memoize", cfg.Memoize)

	a.engine = derive.NewEngine(cfg.DatasetSize, cfg.Memoize, rng)
	a.calc = &derive.Calculator{Iterations: cfg.CalcIterations}
	a.updater = &nested.Updater{Mode: cfg.CloneMode, Now: now}
	a.appCtx.Enabled = cfg.ContextMode == ContextMemo

	a.network = newNetworkPanel(a, deps.Fetcher)
	a.panels[PanelDashboard] = newDashboardPanel(a)
	a.panels[PanelMemory] = newMemoryPanel(a)
	a.panels[PanelNetwork] = a.network
	a.panels[PanelEvents] = newEventPanel(a)
	a.panels[PanelComplex] = newComplexPanel(a)
	return a
}

// Runtime returns the runtime the App runs on.
func (a *App) Runtime() *runtime.Runtime { return a.rt }

// Mount registers the render callback and mounts every enabled panel.
func (a *App) Mount() {
	if a.mounted {
		return
	}
	a.mounted = true
	a.rt.OnRender(a.render)
	a.reconcile()
}

// Snapshot returns the snapshot of the last completed cycle. Loop goroutine only.
func (a *App) Snapshot() state.Snapshot { return a.last }

// reconcile mounts and unmounts panels to match featureToggles.
func (a *App) reconcile() {
	toggles := a.toggles.Get()
	for _, name := range PanelNames {
		scope, mounted := a.scopes[name]
		switch {
		case toggles[name] && !mounted:
			scope = a.rt.Mount(name)
			a.panels[name].mount(scope)
			a.scopes[name] = scope
			a.log.Info("panel mounted", zap.String("panel", name))
		case !toggles[name] && mounted:
			scope.Unmount()
			delete(a.scopes, name)
			a.log.Info("panel unmounted", zap.String("panel", name),
				zap.Int("timers", a.rt.Timers().Active()),
				zap.Int("listeners", a.rt.Events().Total()))
		}
	}
}

// context returns the value handed to every panel. In rebuild mode it is a
// new object each cycle even when no field changed.
func (a *App) context() *AppContext {
	toggles := a.toggles.Get()
	theme := a.complex.Get().Metadata.Settings.Theme
	memo := a.memoize.Get()
	return a.appCtx.Get([]any{theme, toggles, memo}, func() *AppContext {
		return &AppContext{Theme: theme, Toggles: toggles, Memoized: memo}
	})
}

func (a *App) render(c runtime.Cycle) {
	ctx := a.context()
	snap := state.Snapshot{
		Cycle:         c.Number,
		Counter:       a.counter.Get(),
		UpdateCounter: a.updateCounter.Get(),
		SearchTerm:    a.searchTerm.Get(),
		Memoized:      ctx.Memoized,
		Tracking:      a.rt.Tracking().String(),
		ContextBuilds: a.appCtx.Computes(),
		ContextMode:   a.cfg.ContextMode.String(),
		Bailouts:      a.rt.Bailouts(),
	}
	for _, name := range PanelNames {
		_, mounted := a.scopes[name]
		snap.Panels = append(snap.Panels, state.PanelState{Name: name, Mounted: mounted})
		if !mounted {
			continue
		}
		p := a.panels[name]
		p.render(ctx, &snap)
		for _, e := range p.effects() {
			snap.Effects = append(snap.Effects, effectStat(name, e))
		}
	}
	snap.ActiveTimers = a.rt.Timers().Active()
	snap.TimerLabels = a.rt.Timers().Labels()
	snap.TimersFired = a.rt.Timers().Fired()
	snap.Events.Pointer = a.rt.Events().Count(runtime.PointerMove)
	snap.Events.Scroll = a.rt.Events().Count(runtime.Scroll)
	snap.Events.Resize = a.rt.Events().Count(runtime.Resize)
	snap.Events.Dispatched = a.rt.Events().Dispatched()
	snap.Events.Handled = a.rt.Events().Handled()

	a.last = snap
	if a.store != nil {
		a.store.Update(snap)
	}
}

func effectStat(scope string, e *runtime.Effect) state.EffectStat {
	return state.EffectStat{Scope: scope, Name: e.Name(), Trigger: e.Trigger().String(), Runs: e.Runs(), Cleanups: e.Cleanups()}
}

func toggled(m map[string]bool, key string) map[string]bool {
	next := maps.Clone(m)
	if next == nil {
		next = make(map[string]bool)
	}
	next[key] = !next[key]
	return next
}
