package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	platformgrpc "github.com/louisbranch/my-api/internal/platform/grpc"
	"github.com/louisbranch/my-api/internal/platform/timeouts"
	"github.com/louisbranch/my-api/internal/services/mcp/domain"
	usersclient "github.com/louisbranch/my-api/internal/services/users/client"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "my-api-mcp"
	serverVersion = "0.1.0"
)

// TransportKind selects how the MCP server talks to clients.
type TransportKind string

const (
	// TransportStdio serves a single client over stdin/stdout.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves streamable HTTP sessions.
	TransportHTTP TransportKind = "http"
)

// Config holds MCP service configuration.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string
	// APIURL is the base URL of the users API.
	APIURL string
	// APIKey guards the HTTP transport; it is ignored for stdio.
	APIKey string
	// AllowedHosts extends the loopback-only Host/Origin allowlist.
	AllowedHosts []string
	// APIHealthGRPCAddr, when set, is probed before serving.
	APIHealthGRPCAddr string
}

// NewServer builds an MCP server with every users API tool registered.
func NewServer(client domain.APIClient) (*mcp.Server, error) {
	if client == nil {
		return nil, errors.New("users API client is required")
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerTools(server, client)
	return server, nil
}

func registerTools(server *mcp.Server, client domain.APIClient) {
	mcp.AddTool(server, domain.HealthTool(), domain.HealthHandler(client))
	mcp.AddTool(server, domain.EchoTool(), domain.EchoHandler(client))
	mcp.AddTool(server, domain.UserListTool(), domain.UserListHandler(client))
	mcp.AddTool(server, domain.UserCreateTool(), domain.UserCreateHandler(client))
	mcp.AddTool(server, domain.UserGetTool(), domain.UserGetHandler(client))
}

// Run is the service entrypoint for MCP and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	if cfg.Transport == TransportHTTP && strings.TrimSpace(cfg.APIKey) == "" {
		return errors.New("api key is required for http transport")
	}

	if err := waitForAPI(ctx, cfg.APIHealthGRPCAddr); err != nil {
		return err
	}

	client, err := usersclient.New(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init users API client: %w", err)
	}
	server, err := NewServer(client)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportHTTP:
		return runHTTP(ctx, server, cfg)
	default:
		log.Printf("mcp serving over stdio api=%s", cfg.APIURL)
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve mcp stdio: %w", err)
		}
		return nil
	}
}

// waitForAPI blocks until the API's gRPC health endpoint reports SERVING.
func waitForAPI(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	conn, err := platformgrpc.DialWithHealth(ctx, addr, timeouts.GRPCDial, log.Printf)
	if err != nil {
		return fmt.Errorf("wait for users API at %s: %w", addr, err)
	}
	if err := conn.Close(); err != nil {
		log.Printf("close users API health connection: %v", err)
	}
	return nil
}
