package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/sluggish/internal/config"
	"github.com/five82/sluggish/internal/demo"
	"github.com/five82/sluggish/internal/logging"
	"github.com/five82/sluggish/internal/placeholder"
	"github.com/five82/sluggish/internal/prefs"
	"github.com/five82/sluggish/internal/runtime"
	"github.com/five82/sluggish/internal/state"
	"github.com/five82/sluggish/internal/ui"
)

// Options configure the sluggish application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/sluggish/prefs.toml
	Verbose    bool
	Offline    bool // skip the posts endpoint entirely
}

const uiPollTick = 100 * time.Millisecond

// session is everything one run of the demo needs, built from config.
type session struct {
	cfg    config.Config
	log    *zap.Logger
	rt     *runtime.Runtime
	store  *state.Store
	demo   *demo.App
	finish func()
}

func newSession(opts Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Offline {
		cfg.FetchURL = ""
	}

	logger, sync, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Verbose: opts.Verbose})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	var fetcher placeholder.PostFetcher
	if cfg.FetchURL != "" {
		client, err := placeholder.NewClient(cfg.FetchURL, cfg.BasePath)
		if err != nil {
			sync()
			return nil, fmt.Errorf("init posts client: %w", err)
		}
		fetcher = client
		logger.Info("posts endpoint", zap.String("url", client.URL()))
	} else {
		logger.Info("network fetches disabled")
	}

	rt := runtime.New(runtime.Options{
		Logger:     logger.Named("runtime"),
		Tracking:   cfg.EffectTracking,
		Resolution: cfg.TickResolution,
	})
	store := &state.Store{}
	d := demo.New(cfg.Demo(), demo.Deps{
		Runtime: rt,
		Fetcher: fetcher,
		Store:   store,
		Logger:  logger.Named("demo"),
	})
	d.Mount()

	logger.Info("session started",
		zap.String("tracking", cfg.EffectTracking.String()),
		zap.String("clone_mode", cfg.CloneMode.String()),
		zap.String("listener_trigger", cfg.ListenerTrigger.String()),
		zap.Bool("memoize", cfg.Memoize),
		zap.Int("dataset_size", cfg.DatasetSize),
	)

	return &session{cfg: cfg, log: logger, rt: rt, store: store, demo: d, finish: sync}, nil
}

// Run boots the sluggish TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.finish()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		s.log.Warn("load prefs", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// The runtime loop owns every state cell; the UI only posts to it.
	g.Go(func() error {
		return s.rt.Run(gctx)
	})

	StartReporter(gctx, s.store, s.log.Named("reporter"), defaultReportInterval)

	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context:   gctx,
			Actions:   s.demo,
			Store:     s.store,
			Panels:    demo.PanelNames,
			LogPath:   s.cfg.LogFile,
			PollTick:  uiPollTick,
			ThemeName: userPrefs.Theme,
			ShowLogs:  userPrefs.ShowLogs,
			PrefsPath: opts.PrefsPath,
		})
	})

	err = g.Wait()
	s.demo.WaitFetches()
	s.log.Info("session ended", zap.Uint64("cycles", s.rt.Cycles()), zap.Int("fetches", s.demo.FetchCount()))
	return err
}
