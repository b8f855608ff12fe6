package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"slate/internal/services"
)

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: "json", Level: "info", Writer: &buf})

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithPipeline(ctx, "script")
	ctx = services.WithStage(ctx, "elements")

	WithContext(ctx, logger).Info("hello")

	out := buf.String()
	for _, want := range []string{`"run_id":"run-1"`, `"pipeline":"script"`, `"stage":"elements"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got %s", want, out)
		}
	}
}

func TestWithContextNilLogger(t *testing.T) {
	logger := WithContext(context.Background(), nil)
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	// Must not panic.
	logger.Info("ignored")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("dropped", Error(nil))
}
