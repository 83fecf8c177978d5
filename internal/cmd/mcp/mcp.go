// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"strings"

	entrypoint "github.com/louisbranch/my-api/internal/platform/cmd"
	mcpservice "github.com/louisbranch/my-api/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Transport         string   `env:"MY_API_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr          string   `env:"MY_API_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	APIURL            string   `env:"MY_API_URL"               envDefault:"http://localhost:8000"`
	APIKey            string   `env:"MY_API_MCP_API_KEY"`
	AllowedHosts      []string `env:"MY_API_MCP_ALLOWED_HOSTS" envSeparator:","`
	APIHealthGRPCAddr string   `env:"MY_API_HEALTH_GRPC_ADDR"`
	LogLevel          string   `env:"MY_API_LOG_LEVEL"         envDefault:"info"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address (for http transport)")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "users API base URL")
	fs.StringVar(&cfg.APIHealthGRPCAddr, "api-health-grpc-addr", cfg.APIHealthGRPCAddr, "users API gRPC health address to wait for (empty skips)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log verbosity (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithLogLevel(ctx, entrypoint.ServiceMCP, cfg.LogLevel, func(context.Context) error {
		if err := mcpservice.Run(ctx, mcpservice.Config{
			Transport:         mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:          cfg.HTTPAddr,
			APIURL:            cfg.APIURL,
			APIKey:            cfg.APIKey,
			AllowedHosts:      cfg.AllowedHosts,
			APIHealthGRPCAddr: cfg.APIHealthGRPCAddr,
		}); err != nil {
			return fmt.Errorf("serve mcp: %w", err)
		}
		return nil
	})
}
