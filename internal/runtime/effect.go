package runtime

import "go.uber.org/zap"

type triggerKind int

const (
	triggerAlways triggerKind = iota
	triggerOnce
	triggerOn
)

// Trigger is the declared trigger set of an effect.
type Trigger struct {
	kind   triggerKind
	values func() []any
}

// Always declares no trigger set: the effect re-runs after every cycle.
func Always() Trigger { return Trigger{kind: triggerAlways} }

// Once declares an empty trigger set: run at mount, clean up at teardown.
func Once() Trigger { return Trigger{kind: triggerOnce} }

// On watches the values returned by fn, evaluated after each cycle's render.
// A nil fn behaves like Once.
func On(fn func() []any) Trigger {
	if fn == nil {
		return Once()
	}
	return Trigger{kind: triggerOn, values: fn}
}

// String names the trigger kind for logs.
func (t Trigger) String() string {
	switch t.kind {
	case triggerOnce:
		return "once"
	case triggerOn:
		return "deps"
	default:
		return "always"
	}
}

// EffectFunc is an effect body. The returned func, if any, is its cleanup.
type EffectFunc func() (cleanup func())

// Effect is a registered effect. Its counters are probes for tests and the UI.
type Effect struct {
	scope   *Scope
	name    string
	trigger Trigger
	body    EffectFunc

	cleanup  func()
	ran      bool
	prev     []any
	next     []any
	seen     uint64
	runs     int
	cleanups int
}

// Name returns the effect label.
func (e *Effect) Name() string { return e.name }

// Trigger returns the declared trigger set.
func (e *Effect) Trigger() Trigger { return e.trigger }

// Runs counts body executions.
func (e *Effect) Runs() int { return e.runs }

// Cleanups counts cleanup executions.
func (e *Effect) Cleanups() int { return e.cleanups }

func (e *Effect) due(c Cycle, mode TrackingMode) bool {
	switch e.trigger.kind {
	case triggerOnce:
		return !e.ran
	case triggerOn:
		vals := e.trigger.values()
		if !e.ran || changed(e.prev, vals) {
			e.next = vals
			return true
		}
		return false
	default:
		if mode == TrackAllState && e.ran && e.seen == c.StateVersion {
			return false
		}
		return true
	}
}

func (e *Effect) run(c Cycle) {
	rt := e.scope.rt
	rt.current = owner{effect: e, run: e.runs + 1}
	e.cleanup = e.body()
	rt.current = owner{}
	e.ran = true
	e.runs++
	e.prev, e.next = e.next, nil
	e.seen = c.StateVersion
	e.scope.rt.log.Debug("effect ran",
		zap.String("scope", e.scope.name),
		zap.String("effect", e.name),
		zap.Stringer("trigger", e.trigger),
		zap.Uint64("cycle", c.Number))
}

func (e *Effect) runCleanup() {
	if e.cleanup == nil {
		return
	}
	fn := e.cleanup
	e.cleanup = nil
	fn()
	e.cleanups++
}

// owner is the effect run that registered a timer or listener. The zero
// owner means the registration came from outside any effect body.
type owner struct {
	effect *Effect
	run    int
}

// live reports whether the registering run is still the effect's latest and
// its scope is mounted. Anything else is a leak.
func (o owner) live() bool {
	return o.effect != nil && o.effect.scope.mounted && o.run == o.effect.runs
}

func changed(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !Same(prev[i], next[i]) {
			return true
		}
	}
	return false
}

// Scope groups the effects of one mounted view.
type Scope struct {
	rt      *Runtime
	name    string
	effects []*Effect
	mounted bool
}

// Mount registers a new scope. Its effects first run on the next cycle.
func (rt *Runtime) Mount(name string) *Scope {
	s := &Scope{rt: rt, name: name, mounted: true}
	rt.scopes = append(rt.scopes, s)
	rt.dirty = true
	rt.log.Debug("scope mounted", zap.String("scope", name))
	return s
}

// Name returns the scope label.
func (s *Scope) Name() string { return s.name }

// Mounted reports whether the scope is still attached.
func (s *Scope) Mounted() bool { return s.mounted }

// Runtime returns the owning runtime.
func (s *Scope) Runtime() *Runtime { return s.rt }

// Effect registers an effect on the scope.
func (s *Scope) Effect(name string, trigger Trigger, body EffectFunc) *Effect {
	e := &Effect{scope: s, name: name, trigger: trigger, body: body}
	s.effects = append(s.effects, e)
	return e
}

// Unmount detaches the scope and runs the cleanups its effects declared.
// Anything registered without a cleanup keeps running.
func (s *Scope) Unmount() {
	if !s.mounted {
		return
	}
	s.teardown()
	s.rt.removeScope(s)
	s.rt.dirty = true
}

func (s *Scope) teardown() {
	if !s.mounted {
		return
	}
	s.mounted = false
	for _, e := range s.effects {
		e.runCleanup()
	}
	s.rt.log.Debug("scope unmounted", zap.String("scope", s.name))
}
