package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverVersion = "0.1.0"

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	// TransportStdio or TransportHTTP, defaults to stdio
	Transport string

	// listen address of the http transport
	HTTPAddr string
}

// Server exposes the gateway as a set of MCP tools.
type Server struct {
	gateway   *Gateway
	mcpServer *mcp.Server
}

func NewServer(gateway *Gateway) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "kesko", Version: serverVersion}, nil)

	registerTools(mcpServer, gateway)

	return &Server{gateway: gateway, mcpServer: mcpServer}
}

// Run serves the MCP tools using the configured transport until ctx is done.
func (s *Server) Run(ctx context.Context, config Config) error {
	if config.Transport == "" {
		config.Transport = TransportStdio
	}

	switch config.Transport {
	case TransportStdio:
		return s.serveWithTransport(ctx, &mcp.StdioTransport{})

	case TransportHTTP:
		return s.serveHTTP(ctx, config.HTTPAddr)

	default:
		return fmt.Errorf("transport %q is not supported", config.Transport)
	}
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = "localhost:8081"
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Failed to shutdown MCP http server", slog.String("err", err.Error()))
		}
	}()

	slog.Info("Serving MCP over http", slog.String("addr", addr))

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return fmt.Errorf("serve MCP over http: %w", err)
}
