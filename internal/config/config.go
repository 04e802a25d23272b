package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/sluggish/internal/demo"
	"github.com/five82/sluggish/internal/nested"
	"github.com/five82/sluggish/internal/placeholder"
	"github.com/five82/sluggish/internal/runtime"
)

// Config is the parsed sluggish configuration.
type Config struct {
	FetchURL        string
	BasePath        string
	NetworkInterval time.Duration
	TickResolution  time.Duration

	DatasetSize    int
	VisibleItems   int
	CalcIterations int
	LargeBatch     int
	PayloadLen     int

	Memoize         bool
	EffectTracking  runtime.TrackingMode
	CloneMode       nested.Mode
	ListenerTrigger demo.ListenerTrigger
	ListenerCleanup bool
	IntervalCleanup bool
	ContextMode     demo.ContextMode

	LogFile  string
	LogLevel string
}

const (
	defaultConfigPath      = "~/.config/sluggish/config.toml"
	defaultLogFile         = "~/.local/share/sluggish/sluggish.log"
	defaultLogLevel        = "info"
	defaultNetworkInterval = 3000
	defaultTickResolution  = 10
)

// fileConfig mirrors config.toml. Pointers distinguish absent keys from zero values.
type fileConfig struct {
	FetchURL          string `toml:"fetch_url"`
	BasePath          string `toml:"base_path"`
	NetworkIntervalMS *int   `toml:"network_interval_ms"`
	TickResolutionMS  *int   `toml:"tick_resolution_ms"`
	DatasetSize       *int   `toml:"dataset_size"`
	VisibleItems      *int   `toml:"visible_items"`
	CalcIterations    *int   `toml:"calc_iterations"`
	LargeBatch        *int   `toml:"large_batch"`
	PayloadLen        *int   `toml:"payload_len"`
	Memoize           *bool  `toml:"memoize"`
	EffectTracking    string `toml:"effect_tracking"`
	CloneMode         string `toml:"clone_mode"`
	ListenerTrigger   string `toml:"listener_trigger"`
	ListenerCleanup   *bool  `toml:"listener_cleanup"`
	IntervalCleanup   *bool  `toml:"interval_cleanup"`
	ContextMode       string `toml:"context_mode"`
	LogFile           string `toml:"log_file"`
	LogLevel          string `toml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	d := demo.DefaultConfig()
	return Config{
		FetchURL:        placeholder.DefaultPostsURL,
		NetworkInterval: defaultNetworkInterval * time.Millisecond,
		TickResolution:  defaultTickResolution * time.Millisecond,
		DatasetSize:     d.DatasetSize,
		VisibleItems:    d.VisibleItems,
		CalcIterations:  d.CalcIterations,
		LargeBatch:      d.LargeBatch,
		PayloadLen:      d.PayloadLen,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
	}
}

// Load locates and parses the sluggish config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) apply(raw fileConfig) error {
	if v := strings.TrimSpace(raw.FetchURL); v != "" {
		c.FetchURL = v
	}
	c.BasePath = strings.TrimSpace(raw.BasePath)

	setMillis(&c.NetworkInterval, raw.NetworkIntervalMS)
	setMillis(&c.TickResolution, raw.TickResolutionMS)
	setPositive(&c.DatasetSize, raw.DatasetSize)
	setPositive(&c.VisibleItems, raw.VisibleItems)
	setPositive(&c.CalcIterations, raw.CalcIterations)
	setPositive(&c.LargeBatch, raw.LargeBatch)
	setPositive(&c.PayloadLen, raw.PayloadLen)
	setBool(&c.Memoize, raw.Memoize)
	setBool(&c.ListenerCleanup, raw.ListenerCleanup)
	setBool(&c.IntervalCleanup, raw.IntervalCleanup)

	var err error
	if c.EffectTracking, err = parseTracking(raw.EffectTracking); err != nil {
		return err
	}
	if c.CloneMode, err = parseCloneMode(raw.CloneMode); err != nil {
		return err
	}
	if c.ListenerTrigger, err = demo.ParseListenerTrigger(raw.ListenerTrigger); err != nil {
		return fmt.Errorf("listener_trigger: %w", err)
	}
	if c.ContextMode, err = parseContextMode(raw.ContextMode); err != nil {
		return err
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Demo returns the panel configuration.
func (c Config) Demo() demo.Config {
	d := demo.DefaultConfig()
	d.DatasetSize = c.DatasetSize
	d.VisibleItems = c.VisibleItems
	d.CalcIterations = c.CalcIterations
	d.LargeBatch = c.LargeBatch
	d.PayloadLen = c.PayloadLen
	d.Memoize = c.Memoize
	d.CloneMode = c.CloneMode
	d.ContextMode = c.ContextMode
	d.NetworkInterval = c.NetworkInterval
	d.ListenerTrigger = c.ListenerTrigger
	d.ListenerCleanup = c.ListenerCleanup
	d.IntervalCleanup = c.IntervalCleanup
	return d
}

func setMillis(dst *time.Duration, v *int) {
	if v != nil && *v > 0 {
		*dst = time.Duration(*v) * time.Millisecond
	}
}

func setPositive(dst *int, v *int) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func parseTracking(s string) (runtime.TrackingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "untracked":
		return runtime.TrackNone, nil
	case "all-state":
		return runtime.TrackAllState, nil
	default:
		return runtime.TrackNone, fmt.Errorf("effect_tracking: unknown mode %q", s)
	}
}

func parseCloneMode(s string) (nested.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return nested.FullClone, nil
	case "path-copy":
		return nested.PathCopy, nil
	default:
		return nested.FullClone, fmt.Errorf("clone_mode: unknown mode %q", s)
	}
}

func parseContextMode(s string) (demo.ContextMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "memo":
		return demo.ContextMemo, nil
	case "rebuild":
		return demo.ContextRebuild, nil
	default:
		return demo.ContextMemo, fmt.Errorf("context_mode: unknown mode %q", s)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
