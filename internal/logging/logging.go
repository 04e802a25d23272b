// Package logging builds the zap logger shared by every component.
//
// The TUI owns the terminal, so logs go to a JSON file that the log panel
// tails. Each process run gets a session id so lines from consecutive runs
// can be told apart in the same file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configure New.
type Options struct {
	File    string // log file path; "-" writes to stderr
	Level   string // debug, info, warn, error
	Verbose bool   // forces debug
}

// New builds a production JSON logger named "sluggish". The returned func
// flushes buffered entries.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := zap.ParseAtomicLevel(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	output := strings.TrimSpace(opts.File)
	if output == "" || output == "-" {
		output = "stderr"
	}
	if output != "stderr" {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = level
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{output}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	logger = logger.Named("sluggish").With(zap.String("session", uuid.NewString()))

	return logger, func() { _ = logger.Sync() }, nil
}
