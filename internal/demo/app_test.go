package demo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/sluggish/internal/nested"
	"github.com/five82/sluggish/internal/placeholder"
	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeFetcher struct {
	calls atomic.Int64
	err   error
}

func (f *fakeFetcher) FetchPosts(context.Context) ([]placeholder.Post, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []placeholder.Post{{ID: 1, Title: "first"}, {ID: 2, Title: "second"}}, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DatasetSize = 200
	cfg.VisibleItems = 10
	cfg.CalcIterations = 10
	cfg.PayloadLen = 2
	return cfg
}

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func startApp(t *testing.T, cfg Config, fetcher placeholder.PostFetcher) (*App, *runtime.Runtime) {
	t.Helper()
	return startAppWithLogger(t, cfg, fetcher, zap.NewNop())
}

func startAppWithLogger(t *testing.T, cfg Config, fetcher placeholder.PostFetcher, logger *zap.Logger) (*App, *runtime.Runtime) {
	t.Helper()
	rt := runtime.New(runtime.Options{Logger: logger})
	app := New(cfg, Deps{
		Runtime: rt,
		Fetcher: fetcher,
		Store:   &state.Store{},
		Now:     func() time.Time { return epoch },
		Rand:    rand.New(rand.NewPCG(1, 2)),
	})
	app.Mount()
	rt.Start()
	t.Cleanup(func() {
		app.WaitFetches()
		rt.Drain()
		rt.Close()
	})
	return app, rt
}

// settle joins outstanding fetches and applies their results.
func settle(app *App, rt *runtime.Runtime) {
	app.WaitFetches()
	rt.Drain()
}

func TestNetwork_EachTriggerChangeFetches(t *testing.T) {
	fetcher := &fakeFetcher{}
	cfg := testConfig()
	app, rt := startApp(t, cfg, fetcher)
	settle(app, rt)

	require.Equal(t, 1, app.FetchCount(), "initial mount fetches once")
	require.Equal(t, 0, app.Snapshot().Network.Trigger)

	rt.Advance(5 * cfg.NetworkInterval)
	settle(app, rt)

	snap := app.Snapshot()
	require.Equal(t, 5, snap.Network.Trigger)
	require.Equal(t, 6, app.FetchCount())
	require.Equal(t, int64(6), fetcher.calls.Load())
	require.Equal(t, 2, snap.Network.Loaded)
	require.Equal(t, []string{"first", "second"}, snap.Network.Titles)
	require.False(t, snap.Network.Loading)
}

func TestNetwork_FailureKeepsPriorData(t *testing.T) {
	fetcher := &fakeFetcher{}
	cfg := testConfig()
	app, rt := startApp(t, cfg, fetcher)
	settle(app, rt)
	require.Equal(t, 2, app.Snapshot().Network.Loaded)

	fetcher.err = errors.New("connection refused")
	rt.Advance(cfg.NetworkInterval)
	settle(app, rt)

	snap := app.Snapshot()
	require.Equal(t, 2, app.FetchCount())
	require.Equal(t, 1, app.FetchFailures())
	require.Equal(t, 2, snap.Network.Loaded)
	require.Equal(t, 1, snap.Network.Failures)
}

func TestNetwork_UnmountLeaksInterval(t *testing.T) {
	cfg := testConfig()
	app, rt := startApp(t, cfg, nil)

	app.TogglePanel(PanelNetwork)
	rt.Drain()
	require.Contains(t, rt.Timers().Labels(), "network-trigger")

	rt.Advance(2 * cfg.NetworkInterval)
	require.Equal(t, 2, app.networkTrigger.Get(), "leaked interval keeps writing state")

	app.ResetLeaks()
	rt.Drain()
	require.NotContains(t, rt.Timers().Labels(), "network-trigger")

	rt.Advance(2 * cfg.NetworkInterval)
	require.Equal(t, 2, app.networkTrigger.Get())
}

func TestNetwork_IntervalCleanupStopsOnUnmount(t *testing.T) {
	cfg := testConfig()
	cfg.IntervalCleanup = true
	app, rt := startApp(t, cfg, nil)

	app.TogglePanel(PanelNetwork)
	rt.Drain()
	require.NotContains(t, rt.Timers().Labels(), "network-trigger")
	require.False(t, app.Snapshot().Panels[2].Mounted)
}

func TestMemory_GenerateAndClear(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)

	app.GenerateLargeData()
	rt.Drain()
	require.Equal(t, 10000, app.LargeCount())

	app.Increment()
	rt.Drain()
	require.Equal(t, 10000, app.LargeCount(), "unrelated updates leave the accumulator alone")

	app.GenerateLargeData()
	rt.Drain()
	require.Equal(t, 20000, app.LargeCount())
	require.Equal(t, 20000, app.Snapshot().Large.Count)
	require.NotEmpty(t, app.Snapshot().Large.Footprint)

	app.ClearLargeData()
	rt.Drain()
	require.Equal(t, 0, app.LargeCount())
}

func TestComplex_AddUser(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)

	prev := app.Complex()
	app.AddRandomUser()
	rt.Drain()
	first := app.Complex()

	require.NotSame(t, prev, first)
	require.Equal(t, 0, prev.Users.Len(), "previous root untouched")
	require.Equal(t, 1, first.Users.Len())
	require.Equal(t, prev.Metadata.Version+1, first.Metadata.Version)
	require.NotNil(t, first.Metadata.LastUpdated)

	app.AddRandomUser()
	rt.Drain()
	second := app.Complex()
	require.Equal(t, 2, second.Users.Len())
	require.True(t, second.Metadata.LastUpdated.After(*first.Metadata.LastUpdated))
	require.Equal(t, 2, app.Snapshot().Complex.Users)
	require.Equal(t, 2, app.Snapshot().Complex.Clones)
}

func TestComplex_ToggleThemeTwiceRestores(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)
	original := app.Complex().Metadata.Settings.Theme

	app.ToggleTheme()
	rt.Drain()
	require.NotEqual(t, original, app.Snapshot().Complex.Theme)

	app.ToggleTheme()
	rt.Drain()
	require.Equal(t, original, app.Snapshot().Complex.Theme)
}

func TestComplex_InvalidUpdateLeavesState(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)
	before := app.Complex()

	app.UpdateNested("metadata.nope", true)
	app.UpdateNested(nested.PathEmail, "yes")
	rt.Drain()

	require.Same(t, before, app.Complex())
}

func TestComplex_ToggleEmail(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)
	require.True(t, app.Snapshot().Complex.Email)

	app.ToggleEmail()
	rt.Drain()
	require.False(t, app.Snapshot().Complex.Email)
}

func TestEvents_ListenerAccumulation(t *testing.T) {
	tests := []struct {
		name    string
		trigger ListenerTrigger
		cleanup bool
		want    int
	}{
		{name: "once", trigger: ListenerOnce, want: 1},
		{name: "every cycle without cleanup", trigger: ListenerEveryCycle, want: 4},
		{name: "every cycle with cleanup", trigger: ListenerEveryCycle, cleanup: true, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.ListenerTrigger = tt.trigger
			cfg.ListenerCleanup = tt.cleanup
			app, rt := startApp(t, cfg, nil)

			for range 3 {
				app.Increment()
				rt.Drain()
			}
			require.Equal(t, tt.want, rt.Events().Count(runtime.PointerMove))
			require.Equal(t, tt.want, rt.Events().Count(runtime.Scroll))
			require.Equal(t, tt.want, rt.Events().Count(runtime.Resize))
		})
	}
}

func TestEvents_DispatchUpdatesState(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)

	app.Pointer(3, 4)
	app.Scroll(120)
	app.Resize(80, 24)
	rt.Drain()

	ev := app.Snapshot().Events
	require.Equal(t, 3, ev.X)
	require.Equal(t, 4, ev.Y)
	require.Equal(t, 120, ev.ScrollY)
	require.Equal(t, 80, ev.Width)
	require.Equal(t, 24, ev.Height)
	require.Equal(t, 200, ev.Handlers)
}

func TestEvents_ListenersSurviveUnmount(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)

	app.TogglePanel(PanelEvents)
	rt.Drain()
	require.Equal(t, 3, rt.Events().Total())

	app.ResetLeaks()
	rt.Drain()
	require.Equal(t, 0, rt.Events().Total())
}

func TestDashboard_MemoizeReducesWork(t *testing.T) {
	for _, memoize := range []bool{false, true} {
		cfg := testConfig()
		cfg.Memoize = memoize
		app, rt := startApp(t, cfg, nil)

		for range 3 {
			app.Increment()
			rt.Drain()
		}
		snap := app.Snapshot()
		cycles := int(rt.Cycles())
		if memoize {
			require.Equal(t, 1, snap.Generations)
			require.Equal(t, 1, snap.Filterings)
		} else {
			require.Equal(t, cycles, snap.Generations)
			require.Equal(t, cycles, snap.Filterings)
		}
		require.Equal(t, cycles*cfg.VisibleItems, snap.Calculations)
	}
}

func TestDashboard_SearchFilters(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)
	require.Equal(t, 200, app.Snapshot().FilteredCount)

	app.SetSearch("item 19")
	rt.Drain()
	snap := app.Snapshot()
	// "Item 19" and "Item 190".."Item 199".
	require.Equal(t, 11, snap.FilteredCount)
	require.Equal(t, "item 19", snap.SearchTerm)
}

func TestDashboard_TimeoutEffectRunsEveryCycle(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)
	for range 4 {
		app.UpdateItem(1)
		rt.Drain()
	}
	snap := app.Snapshot()
	require.Equal(t, 4, snap.UpdateCounter)

	idx := slices.IndexFunc(snap.Effects, func(e state.EffectStat) bool { return e.Name == "render-timeout" })
	require.GreaterOrEqual(t, idx, 0)
	stat := snap.Effects[idx]
	require.Equal(t, "always", stat.Trigger)
	// The snapshot is taken during render, before this cycle's effects.
	require.Equal(t, int(rt.Cycles())-1, stat.Runs)
	pending := 0
	for _, label := range rt.Timers().Labels() {
		if label == "render-timeout" {
			pending++
		}
	}
	require.Equal(t, 1, pending, "only the latest timeout is pending")
}

func TestContext_MemoVersusRebuild(t *testing.T) {
	tests := []struct {
		mode ContextMode
		want func(cycles int) int
	}{
		{mode: ContextMemo, want: func(int) int { return 1 }},
		{mode: ContextRebuild, want: func(c int) int { return c }},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			cfg := testConfig()
			cfg.ContextMode = tt.mode
			app, rt := startApp(t, cfg, nil)
			for range 3 {
				app.Increment()
				rt.Drain()
			}
			require.Equal(t, tt.want(int(rt.Cycles())), app.Snapshot().ContextBuilds)
		})
	}
}

func TestApp_ForceRenderTracking(t *testing.T) {
	app, rt := startApp(t, testConfig(), nil)
	before := rt.Cycles()

	app.ForceRender()
	rt.Drain()
	require.Equal(t, before+1, rt.Cycles())
}

func TestParseListenerTrigger(t *testing.T) {
	tests := []struct {
		in      string
		want    ListenerTrigger
		wantErr bool
	}{
		{in: "", want: ListenerOnce},
		{in: "once", want: ListenerOnce},
		{in: "Every-Cycle", want: ListenerEveryCycle},
		{in: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseListenerTrigger(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseListenerTrigger(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseListenerTrigger(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResetLeaks_MountedPanelsKeepWorking(t *testing.T) {
	for _, cleanup := range []bool{false, true} {
		t.Run(fmt.Sprintf("cleanup=%t", cleanup), func(t *testing.T) {
			cfg := testConfig()
			cfg.IntervalCleanup = cleanup
			cfg.ListenerCleanup = cleanup
			app, rt := startApp(t, cfg, nil)

			app.ResetLeaks()
			rt.Drain()
			require.Contains(t, rt.Timers().Labels(), "network-trigger")
			require.Equal(t, 1, rt.Events().Count(runtime.PointerMove))

			before := app.networkTrigger.Get()
			rt.Advance(3 * cfg.NetworkInterval)
			require.Equal(t, before+3, app.networkTrigger.Get(), "trigger keeps ticking after a reset")

			app.Pointer(7, 9)
			rt.Drain()
			ev := app.Snapshot().Events
			require.Equal(t, 7, ev.X)
			require.Equal(t, 9, ev.Y)
		})
	}
}

func TestResetLeaks_ClearsAccumulatedListeners(t *testing.T) {
	cfg := testConfig()
	cfg.ListenerTrigger = ListenerEveryCycle
	app, rt := startApp(t, cfg, nil)
	for range 3 {
		app.Increment()
		rt.Drain()
	}
	require.Equal(t, 4, rt.Events().Count(runtime.PointerMove))

	app.ResetLeaks()
	rt.Drain()
	// the forced render reruns the effect, adding one more set
	require.Equal(t, 2, rt.Events().Count(runtime.PointerMove))
}

func TestEvents_HoverCells(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := testConfig()
	app, rt := startAppWithLogger(t, cfg, nil, zap.New(core))

	app.Hover(3, true)
	app.Hover(3, false)
	rt.Drain()

	entered := logs.FilterMessage("pointer entered cell").All()
	left := logs.FilterMessage("pointer left cell").All()
	require.Len(t, entered, 1)
	require.Len(t, left, 1)
	require.EqualValues(t, 3, entered[0].ContextMap()["cell"])
	require.EqualValues(t, 3, left[0].ContextMap()["cell"])

	for _, cell := range []int{-1, cfg.HoverCells, cfg.HoverCells + 5} {
		app.Hover(cell, true)
		app.Hover(cell, false)
	}
	rt.Drain()
	require.Equal(t, 1, logs.FilterMessage("pointer entered cell").Len(), "out-of-range cells are ignored")
	require.Equal(t, 1, logs.FilterMessage("pointer left cell").Len())
	require.Equal(t, 2*cfg.HoverCells, app.Snapshot().Events.Handlers)
}

func TestContext_ConsumersSeeNewObjects(t *testing.T) {
	tests := []struct {
		mode ContextMode
		want func(cycles int) int
	}{
		{mode: ContextMemo, want: func(int) int { return 2 }},
		{mode: ContextRebuild, want: func(c int) int { return c }},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			cfg := testConfig()
			cfg.ContextMode = tt.mode
			app, rt := startApp(t, cfg, nil)
			for range 3 {
				app.Increment()
				rt.Drain()
			}
			app.ToggleTheme()
			rt.Drain()

			snap := app.Snapshot()
			require.Equal(t, tt.want(int(rt.Cycles())), snap.ContextChanges)
			require.Equal(t, nested.ThemeDark, snap.Complex.Theme)
		})
	}
}
