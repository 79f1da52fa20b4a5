// Package logging builds the structured logger used by gopoisson binaries.
//
// The library packages never construct loggers themselves; they log through
// slog.Default. Binaries call New and install the result with slog.SetDefault.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// =============================================================================
// Configuration
// =============================================================================

// Config configures the logger. A zero-value Config writes Info and above to
// stderr in text format.
type Config struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// JSON selects the JSON handler instead of the text handler.
	JSON bool

	// Service is attached to every record when non-empty.
	Service string

	// Output overrides stderr. Intended for tests.
	Output io.Writer
}

// ParseLevel maps a level name to a slog level. Unknown names map to Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// New creates a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}
