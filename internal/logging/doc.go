// Package logging wraps log/slog with the attribute helpers, standardized
// field keys, and context-derived loggers used across slate. The analysis
// pipeline itself never logs; callers wrap it with loggers built here.
package logging
