// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap log/slog or zap.
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "analysis stored", "analysis_id", id, "functions", n)
type Logger interface {
	// Debug logs diagnostic details such as state transitions.
	Debug(ctx context.Context, msg string, args ...any)

	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Level is a backend-neutral minimum log level.
type Level int

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel accepts "debug", "info", "warn" (or "warning") and "error",
// case-insensitively. An empty string means LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds the logger selected by backend ("slog" or "zap") writing JSON
// to stdout at the given minimum level. Unknown backends fall back to slog.
func New(backend, level string) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if backend == "zap" {
		return NewProductionZapLogger(lvl)
	}
	return NewJSONSlogLogger(os.Stdout, lvl), nil
}
