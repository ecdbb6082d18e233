// Package mcp exposes the tool registry over the Model Context Protocol and
// provides a client for consuming remote MCP tool servers.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/tools"
)

// Server publishes a tool registry over MCP with SSE transport.
type Server struct {
	mcpServer *server.MCPServer
	registry  *tools.Registry
}

// NewServer wraps the registry in an MCP server. Every registered tool is
// published under its own name with its JSON schema.
func NewServer(name, version string, registry *tools.Registry) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(name, version),
		registry:  registry,
	}
	for _, tool := range registry.Tools() {
		s.mcpServer.AddTool(mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: toInputSchema(tool.Schema()),
		}, s.handler(tool))
	}
	return s
}

// handler adapts a registry tool to an MCP tool handler. Error results carry
// IsError on the MCP response so callers can feed them back to the model.
func (s *Server) handler(tool tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := tools.Invoke(ctx, tool, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("tool execution error: %v", err)), nil
		}
		if result.IsError {
			return mcp.NewToolResultError(result.Output), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(result.Output)},
		}, nil
	}
}

// ServeSSE serves MCP over SSE on listen until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, listen string) error {
	sse := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(listen)
	}()
	logging.Logger().Info("mcp tools server listening", "listen", listen, "tools", len(s.registry.Tools()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("mcp server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	}
}

// toInputSchema converts a registry tool schema into the MCP wire form.
func toInputSchema(schema map[string]any) mcp.ToolInputSchema {
	in := mcp.ToolInputSchema{Type: "object"}
	if t, ok := schema["type"].(string); ok {
		in.Type = t
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		in.Properties = props
	}
	switch required := schema["required"].(type) {
	case []string:
		in.Required = required
	case []any:
		for _, v := range required {
			if name, ok := v.(string); ok {
				in.Required = append(in.Required, name)
			}
		}
	}
	return in
}
