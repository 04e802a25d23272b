package demo

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/five82/sluggish/internal/placeholder"
	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
)

const shownTitles = 10

// networkPanel fetches the posts list once per networkTrigger change. The
// trigger itself is bumped by an interval the panel registers at mount.
type networkPanel struct {
	app     *App
	log     *zap.Logger
	fetcher placeholder.PostFetcher

	posts   *runtime.State[[]placeholder.Post]
	loading *runtime.State[bool]

	ticker *runtime.Effect
	fetch  *runtime.Effect

	inflight sync.WaitGroup
	fetches  atomic.Int64
	failures atomic.Int64
}

func newNetworkPanel(a *App, fetcher placeholder.PostFetcher) *networkPanel {
	return &networkPanel{
		app:     a,
		log:     a.log.Named(PanelNetwork),
		fetcher: fetcher,
		posts:   runtime.NewState(a.rt, "networkData", []placeholder.Post{}),
		loading: runtime.NewState(a.rt, "networkLoading", false),
	}
}

func (p *networkPanel) mount(s *runtime.Scope) {
	a := p.app
	timers := s.Runtime().Timers()

	p.ticker = s.Effect("network-ticker", runtime.Once(), func() func() {
		id := timers.SetInterval("network-trigger", a.cfg.NetworkInterval, func() {
			a.networkTrigger.Update(func(n int) int { return n + 1 })
		})
		if !a.cfg.IntervalCleanup {
			return nil
		}
		return func() { timers.Clear(id) }
	})

	p.fetch = s.Effect("fetch-posts", runtime.On(func() []any {
		return []any{a.networkTrigger.Get()}
	}), func() func() {
		p.start(a.networkTrigger.Get())
		return nil
	})
}

// start issues one request. Nothing cancels it and nothing de-duplicates it.
func (p *networkPanel) start(trigger int) {
	if p.fetcher == nil {
		return
	}
	p.fetches.Add(1)
	p.loading.Set(true)
	p.log.Info("fetch started", zap.Int("trigger", trigger))

	rt := p.app.rt
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		posts, err := p.fetcher.FetchPosts(context.Background())
		rt.Post(func() {
			defer p.loading.Set(false)
			if err != nil {
				p.failures.Add(1)
				p.log.Warn("fetch failed", zap.Int("trigger", trigger), zap.Error(err))
				return
			}
			p.log.Info("fetch finished", zap.Int("trigger", trigger), zap.Int("posts", len(posts)))
			p.posts.Set(posts)
		})
	}()
}

func (p *networkPanel) render(_ *AppContext, snap *state.Snapshot) {
	posts := p.posts.Get()
	titles := make([]string, 0, min(shownTitles, len(posts)))
	for _, post := range posts[:min(shownTitles, len(posts))] {
		titles = append(titles, post.Title)
	}
	snap.Network = state.NetworkStats{
		Trigger:  p.app.networkTrigger.Get(),
		Loading:  p.loading.Get(),
		Fetches:  int(p.fetches.Load()),
		Failures: int(p.failures.Load()),
		Loaded:   len(posts),
		Titles:   titles,
	}
}

func (p *networkPanel) effects() []*runtime.Effect {
	if p.ticker == nil {
		return nil
	}
	return []*runtime.Effect{p.ticker, p.fetch}
}
