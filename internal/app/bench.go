package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/five82/sluggish/internal/demo"
	"github.com/five82/sluggish/internal/state"
)

// BenchOptions configure a headless scripted session.
type BenchOptions struct {
	Options
	Cycles     int
	CPUProfile string
	Out        io.Writer
}

const defaultBenchCycles = 100

// Bench drives the demo without a terminal: a fixed script of user actions on
// a virtual clock, followed by a table of probe counters.
func Bench(ctx context.Context, opts BenchOptions) error {
	s, err := newSession(opts.Options)
	if err != nil {
		return err
	}
	defer s.finish()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()
	res, err := runScript(ctx, s, opts.Cycles)
	if err != nil {
		return err
	}
	res.elapsed = time.Since(start)

	s.log.Info("bench finished",
		zap.Int("steps", res.steps),
		zap.Uint64("cycles", res.snap.Cycle),
		zap.Duration("elapsed", res.elapsed),
	)
	_, err = fmt.Fprintln(out, renderBench(res))
	return err
}

type benchResult struct {
	steps    int
	snap     state.Snapshot
	fetches  int
	failures int
	leaked   int
	elapsed  time.Duration
}

// runScript plays the scripted actions on the calling goroutine, which becomes
// the runtime loop for the duration.
func runScript(ctx context.Context, s *session, steps int) (benchResult, error) {
	if steps <= 0 {
		steps = defaultBenchCycles
	}
	d, rt := s.demo, s.rt
	tick := s.cfg.NetworkInterval / 3
	if tick <= 0 {
		tick = time.Second
	}

	rt.Start()
	var res benchResult
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		benchStep(d, i)
		rt.Drain()
		rt.Advance(tick)
		res.steps++
	}

	d.WaitFetches()
	rt.Drain()

	res.snap = d.Snapshot()
	res.fetches = d.FetchCount()
	res.failures = d.FetchFailures()
	res.leaked, _ = rt.ResetLeaks()
	rt.Close()
	return res, nil
}

// benchStep issues the actions for step i. Every step types into the search
// box and moves the pointer; heavier actions run on a slower cadence.
func benchStep(d *demo.App, i int) {
	d.Increment()
	d.SetSearch(fmt.Sprintf("item %d", i%10))
	d.Pointer(i%80, i%24)
	d.Hover(i%10, i%2 == 0)
	if i%5 == 0 {
		d.Scroll(i)
		d.UpdateItem(i % 50)
	}
	if i%10 == 0 {
		d.GenerateLargeData()
		d.AddRandomUser()
		d.ToggleTheme()
	}
	if i%25 == 0 && i > 0 {
		d.TogglePanel(demo.PanelNetwork)
	}
	if i%40 == 39 {
		d.ToggleMemoize()
	}
}

func renderBench(res benchResult) string {
	snap := res.snap
	rows := [][]string{
		{"steps", humanize.Comma(int64(res.steps))},
		{"cycles", humanize.Comma(int64(snap.Cycle))},
		{"elapsed", res.elapsed.Round(time.Millisecond).String()},
		{"dataset generations", humanize.Comma(int64(snap.Generations))},
		{"filter passes", humanize.Comma(int64(snap.Filterings))},
		{"calculator calls", humanize.Comma(int64(snap.Calculations))},
		{"context builds", humanize.Comma(int64(snap.ContextBuilds))},
		{"context changes seen", humanize.Comma(int64(snap.ContextChanges))},
		{"timers fired", humanize.Comma(int64(snap.TimersFired))},
		{"large items", humanize.Comma(int64(snap.Large.Count))},
		{"large footprint", snap.Large.Footprint},
		{"fetches", humanize.Comma(int64(res.fetches))},
		{"fetch failures", humanize.Comma(int64(res.failures))},
		{"events dispatched", humanize.Comma(int64(snap.Events.Dispatched))},
		{"events handled", humanize.Comma(int64(snap.Events.Handled))},
		{"users", humanize.Comma(int64(snap.Complex.Users))},
		{"nested clones", humanize.Comma(int64(snap.Complex.Clones))},
		{"bailouts", humanize.Comma(int64(snap.Bailouts))},
		{"leaked timers reset", humanize.Comma(int64(res.leaked))},
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("probe", "value").
		Rows(rows...).
		String()
}
