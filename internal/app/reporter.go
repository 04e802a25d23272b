package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/sluggish/internal/state"
)

const defaultReportInterval = 5 * time.Second

// StartReporter launches a background goroutine that logs a summary of the
// latest snapshot at a fixed cadence. It returns immediately.
func StartReporter(ctx context.Context, store *state.Store, logger *zap.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = defaultReportInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var r reporter
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.report(store.Snapshot(), logger)
			}
		}
	}()
}

// reporter remembers what it last logged so idle periods stay quiet.
type reporter struct {
	cycle  uint64
	timers int
}

func (r *reporter) report(snap state.Snapshot, logger *zap.Logger) {
	if snap.Cycle == r.cycle && snap.ActiveTimers == r.timers {
		return
	}
	cycles := snap.Cycle - r.cycle
	r.cycle = snap.Cycle

	logger.Debug("activity",
		zap.Uint64("cycle", snap.Cycle),
		zap.Uint64("cycles_since_last", cycles),
		zap.Int("calculations", snap.Calculations),
		zap.Int("filterings", snap.Filterings),
		zap.Int("large_items", snap.Large.Count),
		zap.Int("fetches", snap.Network.Fetches),
		zap.Uint64("handled_events", snap.Events.Handled),
	)

	if snap.ActiveTimers > r.timers && unmounted(snap, "network") {
		logger.Warn("timers registered with network panel unmounted",
			zap.Int("active", snap.ActiveTimers),
			zap.Strings("labels", snap.TimerLabels),
		)
	}
	r.timers = snap.ActiveTimers

	if listeners := snap.Events.Pointer + snap.Events.Scroll + snap.Events.Resize; listeners > 3 {
		logger.Warn("global listeners accumulating", zap.Int("count", listeners))
	}
	if snap.Bailouts > 0 {
		logger.Warn("nested update limit reached", zap.Int("bailouts", snap.Bailouts))
	}
}

func unmounted(snap state.Snapshot, name string) bool {
	for _, p := range snap.Panels {
		if p.Name == name {
			return !p.Mounted
		}
	}
	return false
}
