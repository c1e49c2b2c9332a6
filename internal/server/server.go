// Package server wraps the MCP server that exposes the job browser as tools.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
)

// Name is the implementation name reported to MCP clients.
const Name = "jobfinder"

// Server wraps the MCP server with dependencies and lifecycle management.
type Server struct {
	mcp     *mcp.Server
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a new MCP server with the given version and logger.
// Tool calls are timed into collector when it is non-nil.
func New(version string, logger *slog.Logger, collector *metrics.Collector) *Server {
	impl := &mcp.Implementation{
		Name:    Name,
		Version: version,
	}

	return &Server{
		mcp:     mcp.NewServer(impl, nil),
		logger:  logger,
		metrics: collector,
	}
}

// Run serves on stdio and blocks until disconnect or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve runs the server on an arbitrary transport.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("starting MCP server", "transport", transportName(t))
	return s.mcp.Run(ctx, t)
}

// MCPServer returns the underlying MCP server for tool registration.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Setup adds the request logging middleware.
func (s *Server) Setup() {
	s.mcp.AddReceivingMiddleware(LoggingMiddleware(s.logger, s.metrics))
}

func transportName(t mcp.Transport) string {
	switch t.(type) {
	case *mcp.StdioTransport:
		return "stdio"
	case *mcp.InMemoryTransport:
		return "memory"
	default:
		return "custom"
	}
}
