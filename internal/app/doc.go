// Package app is the composition root for sluggish.
//
// # Overview
//
// This package wires together configuration, logging, the reactive runtime,
// the demo panels and the UI. Nothing here owns domain logic; it builds the
// pieces in order and decides which goroutine runs what.
//
// # Startup
//
//  1. Load ~/.config/sluggish/config.toml (missing file means defaults)
//  2. Open the zap logger on the configured JSON log file
//  3. Build the posts client, unless --offline or no fetch URL
//  4. Create the runtime, the snapshot Store and the demo App, then mount it
//  5. Run the runtime loop, the reporter and the TUI until one of them exits
//
// # Components
//
//   - app.go: session construction and Run
//   - reporter.go: periodic activity log and leak warnings from snapshots
//   - bench.go: headless scripted session on a virtual clock
//
// # Goroutines
//
//	┌────────────────┐  Post   ┌────────────────┐
//	│ Bubble Tea UI  │────────→│ runtime loop   │
//	└───────▲────────┘         └───────┬────────┘
//	        │ Snapshot()               │ Update()
//	        │        ┌─────────┐       │
//	        └────────│  Store  │←──────┘
//	                 └────▲────┘
//	                      │ Snapshot()
//	                 ┌────┴─────┐
//	                 │ reporter │
//	                 └──────────┘
//
// Run uses an errgroup: quitting the UI cancels the shared context, which
// stops the runtime loop (running declared cleanups) and the reporter.
//
// # Bench
//
// Bench runs the same session without a terminal. The calling goroutine
// becomes the runtime loop; a fixed script of actions is applied one step at
// a time with Drain and Advance between steps, so results depend only on the
// script and config. Leaked timers are reset and counted before teardown.
package app
