// Package logging wires the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New builds a text logger at the requested level. Supported levels:
// debug, info, warn, error; anything else falls back to info.
func New(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// WithComponent returns a logger tagged with a component attribute so
// pipeline stages can be told apart in interleaved output.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger.With("component", component)
}
