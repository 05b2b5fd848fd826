// Package logger builds the zap logger shared by the navdash commands.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a console logger writing to stderr, so that stdout only carries the
// rendered dashboard. level is one of debug, info, warn, error.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.DisableCaller = lvl > zapcore.DebugLevel
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Must is like New but falls back to a warn level logger on an invalid level.
func Must(level string) *zap.Logger {
	l, err := New(level)
	if err == nil {
		return l
	}
	l, _ = New("warn")
	l.Warn("falling back to warn level", zap.Error(err))
	return l
}
