package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLoggerDefaultsToDiscard(t *testing.T) {
	old := Logger()
	defer SetLogger(old)

	SetLogger(nil)
	if Logger().Handler() != slog.DiscardHandler {
		t.Error("Expected discard handler after SetLogger(nil)")
	}
}

func TestSetLogger(t *testing.T) {
	old := Logger()
	defer SetLogger(old)

	var buf bytes.Buffer
	SetLogger(NewTextLogger(&buf, slog.LevelDebug))
	Logger().Debug("extracted lines", slog.Int("count", 3))

	if !strings.Contains(buf.String(), "extracted lines") {
		t.Errorf("Expected message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "count=3") {
		t.Errorf("Expected attribute in output, got %q", buf.String())
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	old := Logger()
	defer SetLogger(old)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(nil)
		}()
		go func() {
			defer wg.Done()
			if Logger() == nil {
				t.Error("Logger() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBufferedHandler(t *testing.T) {
	h := NewBufferedHandler(slog.LevelInfo)
	l := slog.New(h).With(slog.String("doc", "a.json"))

	l.Debug("hidden")
	l.Info("sections assembled", slog.Int("sections", 2))

	if h.Contains("hidden") {
		t.Error("Expected debug record to be filtered")
	}
	if !h.Contains("INFO sections assembled doc=a.json sections=2") {
		t.Errorf("Unexpected output %q", h.String())
	}

	h.Reset()
	if h.String() != "" {
		t.Error("Expected empty buffer after Reset")
	}
}
