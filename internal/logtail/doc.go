// Package logtail reads the tail of the sluggish log file for the UI.
//
// # Overview
//
// The TUI owns the terminal, so the application logs to a file. The log
// panel shows the last lines of that file, parsed from the JSON the logger
// writes into a compact one-line form.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines:
//
//   - Scans the file sequentially (one pass)
//   - Uses O(maxLines) memory, not O(file size)
//   - Returns lines in chronological order
//
// A missing file is not an error: the panel simply stays empty until the
// first line is written.
//
// # Parsing
//
// Parse decodes one JSON object per line. The ts, level, logger and msg keys
// become Entry fields; everything else becomes a sorted key/value Field.
// Timestamps are accepted as epoch seconds or ISO8601 strings. Lines that do
// not decode (a panic trace, for example) are kept verbatim as Msg.
//
//	{"level":"warn","ts":"2024-06-01T12:00:00.000Z","logger":"sluggish.network","msg":"fetch failed","trigger":3}
//
// renders as
//
//	12:00:00 WARN  sluggish.network fetch failed trigger=3
//
// # Usage Example
//
//	entries, err := logtail.Tail(cfg.LogFile, 200)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.String())
//	}
package logtail
