// Package config handles loading and parsing the sluggish configuration file.
//
// # Overview
//
// Every knob of the demo lives in one TOML file: the fetch endpoint, the
// sizes of the generated data, and the comparison switches that turn each
// anti-pattern into its fixed counterpart. The defaults reproduce every
// problem, so an empty or missing file gives the full sluggish experience.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/sluggish/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, blank or non-positive, use defaults
//
// # TOML Format
//
//	fetch_url = "https://jsonplaceholder.typicode.com/posts"
//	base_path = ""
//	network_interval_ms = 3000
//	tick_resolution_ms = 10
//	dataset_size = 10000
//	visible_items = 50
//	calc_iterations = 100000
//	large_batch = 10000
//	payload_len = 1000
//	memoize = false
//	effect_tracking = "untracked"   # or "all-state"
//	clone_mode = "full"             # or "path-copy"
//	listener_trigger = "once"       # or "every-cycle"
//	listener_cleanup = false
//	interval_cleanup = false
//	context_mode = "memo"           # or "rebuild"
//	log_file = "~/.local/share/sluggish/sluggish.log"
//	log_level = "info"
//
// Mode strings are matched case-insensitively. An unknown mode is a parse
// error naming the key.
//
// # Path Expansion
//
// ExpandPath turns "~/..." into a path under the home directory and makes
// relative paths absolute. It is applied to the config file location and
// log_file, and reused by the prefs package.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unknown mode values ("parse config: ...")
//
// # Testing Considerations
//
// Provide explicit config paths and set HOME to a temp dir so tests never
// touch the user's configuration. Default() and Demo() can be used directly
// in unit tests without a file.
package config
