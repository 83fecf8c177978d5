// Package cmd holds the shared startup path for service commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/louisbranch/my-api/internal/platform/config"
	"github.com/louisbranch/my-api/internal/platform/logging"
	"github.com/louisbranch/my-api/internal/platform/otel"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// Service identifiers used for logging and tracing resources.
const (
	ServiceAPI = "api"
	ServiceMCP = "mcp"
)

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// LogLevel filters process logs; empty selects logging.DefaultLevel.
	LogLevel string
	// ShutdownTimeout bounds the final trace flush.
	ShutdownTimeout time.Duration
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithLogLevel runs a service with logging at level and env-configured
// tracing.
func RunWithLogLevel(ctx context.Context, service string, level string, run func(context.Context) error) error {
	return Run(ctx, service, RunOptions{LogLevel: level}, run)
}

// Run installs the process logger and tracer, executes run, then flushes
// traces before returning run's error.
func Run(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.Setup(options.LogLevel, service)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("configure tracing: %w", err)
	}
	defer func() {
		timeout := options.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultOTelShutdownTimeout
		}
		flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("otel shutdown failed", slog.Any("err", err))
		}
	}()

	logger.Debug("service starting")
	return run(ctx)
}
