// Package mcpserv exposes a session over the Model Context Protocol so
// agents can query the target model with path patterns.
package mcpserv

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/dbgmodel/internal/session"
)

// New builds an MCP server with the query tools bound to sess.
func New(sess *session.Session, version string) *server.MCPServer {
	s := server.NewMCPServer("dbgmodel", version,
		server.WithToolCapabilities(false),
	)

	query := mcp.NewTool("query",
		mcp.WithDescription("Evaluate a path pattern (e.g. Processes[].Threads[]) "+
			"against the target model and return the matching paths in canonical order."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Pattern expression or saved pattern name. '[]' matches "+
				"any index, an empty name segment matches any name."),
		),
	)
	s.AddTool(query, handleQuery(sess))

	singleton := mcp.NewTool("singleton",
		mcp.WithDescription("Resolve a wildcard-free pattern to the single path it denotes."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Pattern expression without wildcards."),
		),
	)
	s.AddTool(singleton, handleSingleton(sess))

	return s
}

// ServeStdio runs the MCP server on stdin/stdout until EOF.
func ServeStdio(sess *session.Session, version string) error {
	return server.ServeStdio(New(sess, version))
}

func handleQuery(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pattern, err := req.RequireString("pattern")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		matches, err := sess.Query(ctx, pattern)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path.String()
		}
		return mcp.NewToolResultText(oj.JSON(paths)), nil
	}
}

func handleSingleton(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pattern, err := req.RequireString("pattern")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p, err := sess.Singleton(pattern)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(p.String()), nil
	}
}
