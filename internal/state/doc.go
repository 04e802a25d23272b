// Package state hands render results from the runtime loop to the UI.
//
// # Overview
//
// The reactive runtime and the Bubble Tea program run on different
// goroutines. The runtime's render callback produces a Snapshot once per
// recomputation cycle and stores it here; the UI reads the latest Snapshot on
// its own tick. The Store is the only place the two goroutines meet.
//
// # Architecture
//
//	Producer (runtime loop):        Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ state write      │           │ tick             │
//	│      ↓           │           │      ↓           │
//	│ cycle: render    │           │ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│ store.Update()   │──────────→│ View()           │
//	│      ↓           │           │                  │
//	│ effects          │           │                  │
//	└──────────────────┘           └──────────────────┘
//
// # Core Types
//
// Store:
//   - Thread-safe container for the latest Snapshot
//   - sync.RWMutex; single writer (runtime loop), multiple readers
//
// Snapshot:
//   - Plain display values for one cycle: counters, visible rows, probes
//   - Returned by value with defensive copies of every slice
//
// # Defensive Copying
//
// Update and Snapshot both copy slices and the LastUpdated pointer, so the UI
// can never observe a half-written snapshot or mutate what the runtime
// stored. The copies are small: the visible list is capped (50 rows by
// default) and the large accumulator is reported as counts only.
//
// # Probes
//
// Most Snapshot fields are counters rather than data: dataset generations,
// filter passes, calculator calls, effect runs and cleanups, active timers,
// listener counts, fetches. They are what a reader watches to see each
// anti-pattern at work, and what tests assert on.
//
// # Testing Considerations
//
// The zero Store is ready to use; Snapshot returns a zero Snapshot before the
// first Update.
package state
