// Package runtime is the small reactive host that the sluggish demo panels run on.
//
// # Overview
//
// The runtime owns three things: state cells, render callbacks and effects.
// A write to any state cell marks the runtime dirty; the next flush runs one
// recomputation cycle, which invokes every render callback and then every
// effect whose trigger set says it is due.
//
// # Execution Model
//
// Everything runs on a single loop goroutine:
//
//	┌──────────────┐   Post(task)    ┌────────────────────────────┐
//	│ UI goroutine │ ──────────────> │ loop (Run)                 │
//	└──────────────┘                 │  ├─> task()                │
//	┌──────────────┐   Post(result)  │  ├─> flush()               │
//	│ fetch worker │ ──────────────> │  │    ├─> render callbacks │
//	└──────────────┘                 │  │    └─> due effects      │
//	                                 │  └─> timers (virtual time) │
//	                                 └────────────────────────────┘
//
// Suspension only happens between tasks: a posted task, a fired timer, or an
// arriving network result. Each of them is followed by a flush. Effects that
// write state cause further cycles in the same flush, up to a nested limit
// (default 50); hitting the limit is logged and the remaining work waits for
// the next task instead of spinning forever.
//
// # Trigger Sets
//
//   - Always(): no trigger set. The body runs after every cycle; the previous
//     cleanup runs right before each re-run and at teardown.
//   - Once(): an empty trigger set. The body runs on the first cycle after
//     mount; the cleanup runs once at teardown.
//   - On(fn): the values returned by fn are compared with the previous run
//     using Same (shallow identity). Any difference re-runs the effect.
//
// Within a cycle all due cleanups run before all due bodies, so an effect's
// cleanup always precedes its next execution.
//
// With TrackAllState, Always() is modelled as "trigger set = all state": the
// effect is skipped on cycles where no state cell was written (ForceRender).
// TrackNone keeps the unconditional behaviour. Both are selectable so the
// difference can be measured.
//
// # Leak Conditions
//
// Timers and listeners are shared registries. Nothing cleans them up unless
// an effect returns a cleanup that does so:
//
//	scope.Effect("ticker", runtime.Once(), func() func() {
//		rt.Timers().SetInterval("ticker", time.Second, tick)
//		return nil // leaks: the interval outlives the scope
//	})
//
// Every timer and listener remembers the effect run that registered it.
// Timers().Active() and Events().Count(kind) expose the leak conditions, and
// ResetLeaks is the explicit action that clears them: it removes what belongs
// to unmounted scopes or to superseded runs, and keeps what the latest run of
// a mounted effect registered.
//
// # Testing Considerations
//
// Tests drive the runtime without Run: call Start for the initial cycle,
// Post plus Drain for interactions, and Advance to step virtual time.
package runtime
