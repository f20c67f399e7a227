// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how much to log.
type Options struct {
	Level   string // debug, info, warn, error
	File    string // empty discards all output
	Verbose bool   // forces debug
}

// New builds a JSON logger writing to the configured file. The terminal
// belongs to the TUI, so nothing is ever written to stdout or stderr.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		return zap.NewNop(), nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{opts.File}
	config.ErrorOutputPaths = []string{opts.File}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
