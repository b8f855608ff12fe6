package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Options configures logger construction.
type Options struct {
	// Format selects the output handler: "console" or "json".
	Format string
	// Level is the minimum level: debug, info, warn, error.
	Level string
	// Writer receives log output. Required.
	Writer io.Writer
}

// New constructs a slog.Logger per the supplied options. Unknown formats fall
// back to console output and unknown levels to info.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		return NewNop()
	}
	level := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		return slog.New(slog.NewJSONHandler(opts.Writer, handlerOpts))
	default:
		return slog.New(slog.NewTextHandler(opts.Writer, handlerOpts))
	}
}

// ParseLevel maps a level string to a slog.Level, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
