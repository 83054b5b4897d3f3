// Package logging holds the *slog.Logger used for debug output by the
// segmentation packages.
//
// Library code never writes to stderr on its own. Until SetLogger is called
// every message goes to slog.DiscardHandler:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger installs the package-level logger. Passing nil restores the
// discard logger. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// Logger returns the package-level logger, or a discard logger if none has
// been set. Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	l := slog.New(slog.DiscardHandler)
	if logger.CompareAndSwap(nil, l) {
		return l
	}
	return logger.Load()
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewTextLogger returns a text logger writing to w at the given level.
func NewTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
