// Package app wires the users service into a running HTTP process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	platformgrpc "github.com/louisbranch/my-api/internal/platform/grpc"
	"github.com/louisbranch/my-api/internal/platform/httpx"
	"github.com/louisbranch/my-api/internal/platform/timeouts"
	httpapi "github.com/louisbranch/my-api/internal/services/users/api/http"
	"github.com/louisbranch/my-api/internal/services/users/domain"
	"github.com/louisbranch/my-api/internal/services/users/storage/memory"
)

// HealthServiceName is the gRPC health service reported next to the overall
// server status.
const HealthServiceName = "myapi.v1.UserService"

// Config defines the inputs for the users HTTP process.
type Config struct {
	HTTPAddr          string
	HealthGRPCAddr    string
	CORSAllowOrigin   string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the users HTTP surface and its optional gRPC health endpoint.
type Server struct {
	listener        net.Listener
	httpServer      *http.Server
	health          *platformgrpc.HealthServer
	store           *memory.Store
	shutdownTimeout time.Duration
}

// NewServer binds the listeners and builds the process-lifetime user store.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}

	listener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
	}

	var health *platformgrpc.HealthServer
	if addr := strings.TrimSpace(config.HealthGRPCAddr); addr != "" {
		health, err = platformgrpc.NewHealthServer(addr, HealthServiceName)
		if err != nil {
			_ = listener.Close()
			return nil, fmt.Errorf("init gRPC health: %w", err)
		}
	}

	store := memory.NewStore()
	handler := httpx.Chain(
		httpapi.NewHandler(domain.NewService(store)),
		httpx.Trace(),
		httpx.RequestID(),
		httpx.AccessLog(nil),
		httpx.RecoverPanic(),
		httpx.CORS(config.CORSAllowOrigin),
	)

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
		},
		health:          health,
		store:           store,
		shutdownTimeout: config.ShutdownTimeout,
	}, nil
}

// Addr returns the bound HTTP address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HealthAddr returns the bound gRPC health address, or "" when disabled.
func (s *Server) HealthAddr() string {
	if s == nil {
		return ""
	}
	return s.health.Addr()
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return nil
	}
	return s.httpServer.Handler
}

// Run creates and serves a users server until the context ends.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init api server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve api: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP server until the context ends, then drains
// in-flight requests within the shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("api server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	healthErr := make(chan error, 1)
	if s.health != nil {
		go func() {
			healthErr <- s.health.Serve(healthCtx)
		}()
	}

	serveErr := make(chan error, 1)
	log.Printf("api server listening on %s", s.Addr())
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	var result error
	select {
	case <-ctx.Done():
		s.health.SetNotServing()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			result = fmt.Errorf("shutdown http server: %w", err)
		}
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = fmt.Errorf("serve http: %w", err)
		}
	case err := <-healthErr:
		_ = s.httpServer.Close()
		if err == nil {
			err = errors.New("stopped unexpectedly")
		}
		result = fmt.Errorf("serve gRPC health: %w", err)
	}

	stopHealth()
	if s.health != nil && result == nil {
		if err := <-healthErr; err != nil {
			result = fmt.Errorf("serve gRPC health: %w", err)
		}
	}
	return result
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.health.Close()
	if s.store != nil {
		log.Printf("api server closed users=%d", s.store.Len())
	}
}
