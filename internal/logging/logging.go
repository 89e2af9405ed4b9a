// Package logging builds the structured logger used across the settler.
//
// Text output goes through tint for colored, human-friendly lines; json
// output uses the standard slog JSON handler for log shipping.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"fx-settlement/internal/config"
)

// NewLogger creates a structured logger writing to w based on config.
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Level)

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// NewLoggerWithSystem creates a logger tagged with a component name.
func NewLoggerWithSystem(cfg config.LoggingConfig, w io.Writer, system string) *slog.Logger {
	return NewLogger(cfg, w).With("system", system)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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
