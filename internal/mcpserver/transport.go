package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/PayRam/go-dbquery/internal/lifecycle"
	"github.com/PayRam/go-dbquery/internal/metrics"
)

// Endpoint paths of the HTTP transports.
const (
	StreamablePath = "/mcp"
	SSEPath        = "/mcp/sse"
	MessagePath    = "/mcp/message"
	MetricsPath    = "/metrics"
	HealthPath     = "/healthz"
)

// Transport modes.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
	ModeSSE   = "sse"
)

// HTTPOptions configures the HTTP listener shared by the streamable HTTP and
// SSE transports.
type HTTPOptions struct {
	Addr string
	// Registry, when set, is served on MetricsPath.
	Registry *prometheus.Registry
	// Health, when set, backs HealthPath. A nil error means healthy.
	Health func(ctx context.Context) error
}

// ServeStdio serves MCP frames on in and out until ctx is cancelled or in
// is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("starting MCP server", "transport", ModeStdio)
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Handler builds the HTTP routes for mode. The returned Shutdowner closes
// the transport's open sessions.
func (s *Server) Handler(mode string, opts HTTPOptions) (http.Handler, lifecycle.Shutdowner, error) {
	mux := http.NewServeMux()

	var transport lifecycle.Shutdowner
	switch mode {
	case ModeHTTP:
		streamable := server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(StreamablePath))
		mux.Handle(StreamablePath, streamable)
		transport = streamable
	case ModeSSE:
		sse := server.NewSSEServer(s.mcp,
			server.WithSSEEndpoint(SSEPath),
			server.WithMessageEndpoint(MessagePath),
		)
		mux.Handle(SSEPath, sse)
		mux.Handle(MessagePath, sse)
		transport = sse
	default:
		return nil, nil, fmt.Errorf("unsupported HTTP transport %q", mode)
	}

	if opts.Registry != nil {
		mux.Handle(MetricsPath, metrics.Handler(opts.Registry))
	}
	mux.HandleFunc(HealthPath, s.healthHandler(opts.Health))
	return mux, transport, nil
}

func (s *Server) healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				s.logger.WarnContext(ctx, "health check failed", "error", err)
				http.Error(w, errorText(err), http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	}
}

// ServeHTTP listens on opts.Addr until ctx is cancelled, then shuts the
// listener, the transport and every component already added to shutdown
// down together.
func (s *Server) ServeHTTP(ctx context.Context, mode string, opts HTTPOptions, shutdown *lifecycle.ShutdownHandler) error {
	handler, transport, err := s.Handler(mode, opts)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	shutdown.Add("http", httpServer)
	shutdown.Add("mcp-"+mode, transport)

	endpoint := StreamablePath
	if mode == ModeSSE {
		endpoint = SSEPath
	}
	s.logger.Info("starting MCP server", "transport", mode, "addr", opts.Addr, "endpoint", endpoint)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return shutdown.Wait(gctx)
	})
	return g.Wait()
}
