// Package demo is the sluggish application itself: UIState, the shared
// AppContext and five feature panels, each reproducing one class of
// performance problem on top of the reactive runtime.
//
// # Overview
//
// App owns the top-level state cells (counter, searchTerm, updateCounter,
// featureToggles, networkTrigger, complexState, memoize) and registers a
// single render callback with the runtime. Each cycle the callback builds a
// state.Snapshot by asking every mounted panel to render into it, then hands
// the snapshot to the state.Store for the UI.
//
// # Panels
//
//	dashboard  dataset regenerated and refiltered every cycle, calculator
//	           run for every visible row, a timeout effect with no trigger set
//	memory     10000 large items appended per "generate", never released
//	           until "clear"
//	network    an interval bumps networkTrigger; every change issues a new
//	           GET with no de-duplication, cancellation or caching
//	events     unthrottled pointer, scroll and resize listeners with no
//	           cleanup; 100 hover cells with fresh handlers per render
//	complex    the nested users/settings tree, fully cloned on every update
//
// Panels are mounted and unmounted by toggling featureToggles. Unmounting
// runs declared cleanups only, so by default the network interval and the
// global listeners survive their panel. ResetLeaks is the only way to stop
// them; it leaves alone whatever a mounted panel's latest effect run
// registered.
//
// # Configuration
//
// Config carries the comparison switches: Memoize, CloneMode, ContextMode,
// ListenerTrigger, ListenerCleanup and IntervalCleanup. The defaults
// reproduce every problem; flipping a switch shows the fixed behavior.
//
// # Threading
//
// Everything in this package runs on the runtime loop goroutine except the
// action methods (Increment, SetSearch, ...), which only post tasks, and the
// fetch goroutines, which post their results back. Probes documented as
// "loop goroutine only" must be read from a posted task or from a test that
// drives the runtime directly.
//
// # Testing Considerations
//
// Tests build a runtime with a fixed resolution, call Mount and Start, then
// drive it with Drain and Advance. Deps.Fetcher takes a fake
// placeholder.PostFetcher; WaitFetches joins the fetch goroutines.
package demo
