// Package logging builds the slog loggers used by the commands and services.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "IMAGE_TOOLS_LOG_LEVEL"

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that discards all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// ParseLevel converts debug, info, warn or error (any case) into a slog.Level.
// The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FromEnv returns a logger writing to w whose level comes from
// IMAGE_TOOLS_LOG_LEVEL. An unknown level falls back to info and is reported
// through the logger.
func FromEnv(w io.Writer) *slog.Logger {
	raw := os.Getenv(EnvLevel)
	level, err := ParseLevel(raw)
	logger := New(w, level)
	if err != nil {
		logger.Warn("ignoring invalid log level", "env", EnvLevel, "value", raw)
	}
	return logger
}
