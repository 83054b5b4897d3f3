package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// BufferedHandler is a slog.Handler that keeps formatted records in memory.
// Tests install it with SetLogger and inspect what the detectors reported.
type BufferedHandler struct {
	mu    *sync.Mutex
	buf   *bytes.Buffer
	level slog.Leveler
	attrs []slog.Attr
}

// NewBufferedHandler creates a handler that captures records at or above level.
func NewBufferedHandler(level slog.Leveler) *BufferedHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &BufferedHandler{
		mu:    &sync.Mutex{},
		buf:   &bytes.Buffer{},
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *BufferedHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler. Each record becomes one line:
// LEVEL message key=value ...
func (h *BufferedHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Level.String())
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf.WriteString(sb.String())
	return nil
}

// WithAttrs implements slog.Handler.
func (h *BufferedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BufferedHandler{mu: h.mu, buf: h.buf, level: h.level, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *BufferedHandler) WithGroup(string) slog.Handler {
	return h
}

// String returns everything captured so far.
func (h *BufferedHandler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.String()
}

// Contains reports whether the captured output contains s.
func (h *BufferedHandler) Contains(s string) bool {
	return strings.Contains(h.String(), s)
}

// Reset discards captured output.
func (h *BufferedHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf.Reset()
}
