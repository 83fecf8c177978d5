package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/my-api/internal/platform/httpx"
	"github.com/louisbranch/my-api/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultHTTPAddr = "localhost:8081"

// HTTPHandler serves MCP over streamable HTTP behind host and API key checks.
type HTTPHandler struct {
	mcpHandler   http.Handler
	apiKey       string
	allowedHosts map[string]struct{}
}

// NewHTTPHandler wraps server with the bearer key guard.
func NewHTTPHandler(server *mcp.Server, apiKey string, allowedHosts []string) (*HTTPHandler, error) {
	if server == nil {
		return nil, errors.New("mcp server is required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	return &HTTPHandler{
		mcpHandler: mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil),
		apiKey:       apiKey,
		allowedHosts: parseAllowedHosts(allowedHosts),
	}, nil
}

// ServeHTTP routes /mcp to the MCP handler and /mcp/health to a liveness probe.
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.validateLocalRequest(r); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusForbidden, err.Error())
		return
	}
	switch r.URL.Path {
	case "/mcp/health":
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			_ = httpx.WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case "/mcp":
		if !h.authorizeRequest(w, r) {
			return
		}
		h.mcpHandler.ServeHTTP(w, r)
	default:
		_ = httpx.WriteJSONError(w, http.StatusNotFound, "not found")
	}
}

func runHTTP(ctx context.Context, server *mcp.Server, cfg Config) error {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	handler, err := NewHTTPHandler(server, cfg.APIKey, cfg.AllowedHosts)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return serveHTTP(ctx, listener, withMiddleware(handler))
}

func withMiddleware(handler http.Handler) http.Handler {
	return httpx.Chain(handler, httpx.Trace(), httpx.RequestID(), httpx.AccessLog(nil), httpx.RecoverPanic())
}

func serveHTTP(ctx context.Context, listener net.Listener, handler http.Handler) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	log.Printf("mcp HTTP server listening on %s", listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		// Streaming sessions hold connections open; bound the drain.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			_ = httpServer.Close()
			if !errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("shutdown mcp http server: %w", err)
			}
			log.Printf("mcp http shutdown forced after %s", timeouts.Shutdown)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve mcp http: %w", err)
	}
}
