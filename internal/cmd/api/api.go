// Package api parses api command flags and composes the HTTP entrypoint.
package api

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"

	entrypoint "github.com/louisbranch/my-api/internal/platform/cmd"
	"github.com/louisbranch/my-api/internal/platform/config"
	server "github.com/louisbranch/my-api/internal/services/users/app"
)

// Config holds api command configuration.
type Config struct {
	Port            config.Port `env:"PORT"                        envDefault:"8000"`
	LogLevel        string      `env:"MY_API_LOG_LEVEL"            envDefault:"info"`
	HealthGRPCAddr  string      `env:"MY_API_HEALTH_GRPC_ADDR"`
	CORSAllowOrigin string      `env:"MY_API_CORS_ALLOW_ORIGIN"    envDefault:"*"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.Var(&cfg.Port, "port", "HTTP listen port")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log verbosity (debug, info, warn, error)")
	fs.StringVar(&cfg.HealthGRPCAddr, "health-grpc-addr", cfg.HealthGRPCAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.CORSAllowOrigin, "cors-allow-origin", cfg.CORSAllowOrigin, "CORS allowed origin (empty disables)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HTTPAddr returns the listen address for the configured port on all
// interfaces.
func (c Config) HTTPAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(int(c.Port)))
}

// Run builds the users app and serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithLogLevel(ctx, entrypoint.ServiceAPI, cfg.LogLevel, func(runCtx context.Context) error {
		if err := server.Run(runCtx, server.Config{
			HTTPAddr:        cfg.HTTPAddr(),
			HealthGRPCAddr:  cfg.HealthGRPCAddr,
			CORSAllowOrigin: cfg.CORSAllowOrigin,
		}); err != nil {
			return fmt.Errorf("serve api: %w", err)
		}
		return nil
	})
}
