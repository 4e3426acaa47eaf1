// Package mcpserver exposes the workout log to MCP clients over stdio, so
// an external agent can read progress and register weights.
package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"liftlog/internal/workout"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Store is the part of storage.Store the tools use. Every call reloads first
// because the TUI may have saved since the last one.
type Store interface {
	Reload(ctx context.Context) error
	Snapshot() workout.Collection
	AppendWeight(groupID, exerciseID, weight string) bool
}

// tool pairs an MCP definition with its handler.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates the MCP server with every workout tool registered.
func New(store Store, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"liftlog",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Tools for a personal strength-training log. "+
			"Groups and exercises can be referenced by id or by name."),
	)

	for _, t := range []tool{
		&listWorkoutsTool{store: store},
		&exerciseHistoryTool{store: store},
		&logWeightTool{store: store},
	} {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// Serve runs s over the given streams until ctx is done or in closes.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	slog.Info("MCP server listening on stdio")
	return server.NewStdioServer(s).Listen(ctx, in, out)
}
