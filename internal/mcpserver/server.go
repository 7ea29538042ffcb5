// Package mcpserver exposes the lookup and statistics services as MCP tools
// over stdio, streamable HTTP or SSE.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	dbquery "github.com/PayRam/go-dbquery"
	"github.com/PayRam/go-dbquery/internal/metrics"
	"github.com/PayRam/go-dbquery/queryerr"
)

// DefaultName is the server name announced to MCP clients.
const DefaultName = "dbquery"

type Options struct {
	Name    string
	Version string
	Logger  *slog.Logger
}

// Server registers the four tools on an MCP server.
type Server struct {
	svc      *dbquery.QueryService
	logger   *slog.Logger
	mcp      *server.MCPServer
	handlers map[string]server.ToolHandlerFunc
}

// toolFunc does the work of one tool. Its result is returned to the client
// as JSON text.
type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

func New(svc *dbquery.QueryService, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		svc:      svc,
		logger:   opts.Logger,
		mcp:      server.NewMCPServer(opts.Name, opts.Version, server.WithToolCapabilities(false), server.WithRecovery()),
		handlers: map[string]server.ToolHandlerFunc{},
	}
	s.register(queryFAQTool(), s.queryFAQ)
	s.register(queryMenuTool(), s.queryMenu)
	s.register(faqStatisticsTool(), s.faqStatistics)
	s.register(menuStatisticsTool(), s.menuStatistics)
	return s
}

// MCPServer returns the underlying server, e.g. to attach another transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) register(tool mcp.Tool, fn toolFunc) {
	h := s.instrument(tool.Name, fn)
	s.handlers[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// instrument turns fn into a tool handler that samples metrics, logs
// failures and reports errors as tool results rather than protocol errors.
func (s *Server) instrument(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		out, err := fn(ctx, req)
		metrics.SampleToolCall(name, time.Since(start), err)

		if err != nil {
			s.logger.WarnContext(ctx, "tool call failed", "tool", name, "kind", queryerr.KindOf(err), "error", err)
			return mcp.NewToolResultError(errorText(err)), nil
		}

		body, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s result: %w", name, err)
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// errorText renders err as "[KIND] op: message".
func errorText(err error) string {
	var qe *queryerr.Error
	if errors.As(err, &qe) {
		if qe.Op != "" {
			return fmt.Sprintf("[%s] %s: %v", qe.Kind, qe.Op, qe.Err)
		}
		return fmt.Sprintf("[%s] %v", qe.Kind, qe.Err)
	}
	return fmt.Sprintf("[ERROR] %v", err)
}

// decodeArguments copies the call arguments into dst by their JSON names.
// Absent and null arguments leave the matching field nil.
func decodeArguments(op string, req mcp.CallToolRequest, dst any) error {
	args := req.GetArguments()
	if len(args) == 0 {
		return nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return queryerr.Validationf(op, "invalid arguments: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return queryerr.Validationf(op, "invalid arguments: %v", err)
	}
	return nil
}
