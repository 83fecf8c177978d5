// Package logging configures the process-wide log verbosity.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// ParseLevel maps a level name to a slog level. Matching is case-insensitive
// and an empty name selects DefaultLevel.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DefaultLevel:
		return slog.LevelInfo, nil
	case "debug", "trace":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
	}
}

// New builds a text logger writing to w at the named level.
func New(w io.Writer, level string, service string) (*slog.Logger, error) {
	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parsed}))
	if service = strings.TrimSpace(service); service != "" {
		logger = logger.With(slog.String("service", service))
	}
	return logger, nil
}

// Setup installs a stderr logger as the slog default. Lines written through
// the standard log package are routed through it at info level.
func Setup(level string, service string) (*slog.Logger, error) {
	logger, err := New(os.Stderr, level, service)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}
