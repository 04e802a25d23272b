package runtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TrackingMode selects how effects declared with Always() decide to re-run.
type TrackingMode int

const (
	// TrackNone re-runs Always() effects after every cycle, no questions asked.
	TrackNone TrackingMode = iota
	// TrackAllState treats Always() as "trigger set = all state": the effect
	// re-runs only when some state cell was written since its last run.
	TrackAllState
)

// String returns the config spelling of the mode.
func (m TrackingMode) String() string {
	if m == TrackAllState {
		return "all-state"
	}
	return "untracked"
}

const (
	defaultResolution = 10 * time.Millisecond
	defaultMaxNested  = 50
)

// Options configure a Runtime.
type Options struct {
	Logger          *zap.Logger
	Tracking        TrackingMode
	Resolution      time.Duration // timer granularity of Run; zero uses 10ms
	MaxNestedCycles int           // cycles per flush before bailing out; zero uses 50
}

// Cycle describes one recomputation pass handed to render callbacks.
type Cycle struct {
	Number       uint64
	StateVersion uint64
	Forced       bool
}

// Runtime is a single-threaded reactive host. All state cells, render
// callbacks and effect bodies run on the goroutine that calls Start, Drain,
// Advance or Run. Other goroutines talk to it through Post only.
type Runtime struct {
	log        *zap.Logger
	tracking   TrackingMode
	resolution time.Duration
	maxNested  int

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}

	version   uint64
	dirty     bool
	forced    bool
	started   bool
	cycles    uint64
	bailouts  int
	renderers []func(Cycle)
	scopes    []*Scope
	timers    *Timers
	events    *EventTarget
	current   owner
}

// New builds a Runtime. It does nothing until Start or Run is called.
func New(opts Options) *Runtime {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolution := opts.Resolution
	if resolution <= 0 {
		resolution = defaultResolution
	}
	maxNested := opts.MaxNestedCycles
	if maxNested <= 0 {
		maxNested = defaultMaxNested
	}
	rt := &Runtime{
		log:        logger,
		tracking:   opts.Tracking,
		resolution: resolution,
		maxNested:  maxNested,
		wake:       make(chan struct{}, 1),
	}
	rt.timers = newTimers(&rt.current)
	rt.events = newEventTarget(&rt.current)
	return rt
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *zap.Logger { return rt.log }

// Tracking reports the configured tracking mode.
func (rt *Runtime) Tracking() TrackingMode { return rt.tracking }

// Timers exposes the interval/timeout registry.
func (rt *Runtime) Timers() *Timers { return rt.timers }

// Events exposes the global event target.
func (rt *Runtime) Events() *EventTarget { return rt.events }

// Cycles returns the number of completed recomputation cycles.
func (rt *Runtime) Cycles() uint64 { return rt.cycles }

// Version returns the number of effective state writes so far.
func (rt *Runtime) Version() uint64 { return rt.version }

// Bailouts counts flushes cut short by the nested cycle limit.
func (rt *Runtime) Bailouts() int { return rt.bailouts }

// OnRender registers a callback invoked once per cycle, before any effect of
// that cycle runs.
func (rt *Runtime) OnRender(fn func(Cycle)) {
	if fn != nil {
		rt.renderers = append(rt.renderers, fn)
	}
}

// Start runs the initial cycle. Calling it more than once is a no-op.
func (rt *Runtime) Start() {
	if rt.started {
		return
	}
	rt.started = true
	rt.dirty = true
	rt.flush()
}

// ForceRender requests a cycle without writing any state.
func (rt *Runtime) ForceRender() {
	rt.forced = true
}

// Post enqueues a task for the loop goroutine. Safe for concurrent use.
func (rt *Runtime) Post(task func()) {
	if task == nil {
		return
	}
	rt.mu.Lock()
	rt.pending = append(rt.pending, task)
	rt.mu.Unlock()
	select {
	case rt.wake <- struct{}{}:
	default:
	}
}

// Dispatch posts ev to the global event target.
func (rt *Runtime) Dispatch(ev Event) {
	rt.Post(func() { rt.events.Dispatch(ev) })
}

// Drain runs every queued task on the calling goroutine, flushing after each
// one. It returns the number of tasks executed.
func (rt *Runtime) Drain() int {
	ran := 0
	for {
		rt.mu.Lock()
		batch := rt.pending
		rt.pending = nil
		rt.mu.Unlock()
		if len(batch) == 0 {
			return ran
		}
		for _, task := range batch {
			task()
			ran++
			rt.flush()
		}
	}
}

// Advance moves the virtual clock forward by d, firing due timers in deadline
// order. Every timer callback is its own task followed by a flush.
func (rt *Runtime) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := rt.timers.now + d
	for {
		tm := rt.timers.popDue(target)
		if tm == nil {
			break
		}
		tm.fn()
		rt.flush()
	}
	rt.timers.now = target
}

// Run starts the runtime if needed and processes posted tasks and timers until
// ctx is cancelled. Teardown runs before it returns.
func (rt *Runtime) Run(ctx context.Context) error {
	rt.Start()

	ticker := time.NewTicker(rt.resolution)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			rt.Drain()
			rt.Close()
			return nil
		case <-rt.wake:
			rt.Drain()
		case now := <-ticker.C:
			rt.Advance(now.Sub(last))
			last = now
		}
	}
}

// ResetLeaks clears every timer and listener that no mounted effect still
// owns: registrations of unmounted scopes, registrations an effect left behind
// on an earlier run, and registrations made outside any effect. Whatever the
// latest run of a mounted effect registered stays. It is the only way to stop
// a leaked interval or an accumulated listener.
func (rt *Runtime) ResetLeaks() (timers, listeners int) {
	timers = rt.timers.ClearLeaked()
	listeners = rt.events.RemoveLeaked()
	rt.log.Info("leaks reset", zap.Int("timers", timers), zap.Int("listeners", listeners))
	return timers, listeners
}

// Close unmounts every scope in reverse mount order, running declared
// cleanups. Timers and listeners registered without a cleanup stay behind.
func (rt *Runtime) Close() {
	for i := len(rt.scopes) - 1; i >= 0; i-- {
		rt.scopes[i].teardown()
	}
	rt.scopes = nil
	if n := rt.timers.Active(); n > 0 {
		rt.log.Warn("timers still registered after teardown", zap.Int("count", n), zap.Strings("labels", rt.timers.Labels()))
	}
	if n := rt.events.Total(); n > 0 {
		rt.log.Warn("listeners still registered after teardown", zap.Int("count", n))
	}
}

func (rt *Runtime) markWrite() {
	rt.version++
	rt.dirty = true
}

func (rt *Runtime) flush() {
	if !rt.started {
		return
	}
	for n := 0; rt.dirty || rt.forced; n++ {
		if n >= rt.maxNested {
			rt.bailouts++
			rt.log.Warn("nested update limit reached", zap.Int("cycles", n), zap.Uint64("cycle", rt.cycles))
			return
		}
		forced := rt.forced && !rt.dirty
		rt.dirty, rt.forced = false, false
		rt.cycles++
		c := Cycle{Number: rt.cycles, StateVersion: rt.version, Forced: forced}
		for _, render := range rt.renderers {
			render(c)
		}
		rt.runEffects(c)
	}
}

func (rt *Runtime) runEffects(c Cycle) {
	var due []*Effect
	for _, s := range rt.scopes {
		for _, e := range s.effects {
			if e.due(c, rt.tracking) {
				due = append(due, e)
			}
		}
	}
	for _, e := range due {
		e.runCleanup()
	}
	for _, e := range due {
		e.run(c)
	}
}

func (rt *Runtime) removeScope(target *Scope) {
	for i, s := range rt.scopes {
		if s == target {
			rt.scopes = append(rt.scopes[:i], rt.scopes[i+1:]...)
			return
		}
	}
}
