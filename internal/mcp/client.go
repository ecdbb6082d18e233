package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chatrelay-ai/chatrelay/internal/tools"
)

const (
	callTimeout     = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Client is an MCP client connected to a tools server over SSE.
type Client struct {
	client *client.Client
}

// Dial connects to the tools server at baseURL and completes the MCP
// initialize handshake.
func Dial(ctx context.Context, baseURL string) (*Client, error) {
	sseURL := strings.TrimSuffix(baseURL, "/") + "/sse"
	mcpClient, err := client.NewSSEMCPClient(sseURL)
	if err != nil {
		return nil, fmt.Errorf("create mcp client: %w", err)
	}
	if err := mcpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("start mcp client: %w", err)
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "chatrelay",
				Version: "0.1.0",
			},
		},
	}
	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("initialize mcp server: %w", err)
	}

	return &Client{client: mcpClient}, nil
}

// Close terminates the server connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Tools lists the server's tools as registry-compatible adapters, so the
// agent loop calls remote tools the same way it calls in-process ones.
func (c *Client) Tools(ctx context.Context) ([]tools.Tool, error) {
	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	out := make([]tools.Tool, 0, len(result.Tools))
	for _, tool := range result.Tools {
		schema, err := decodeInputSchema(tool)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", tool.Name, err)
		}
		out = append(out, &remoteTool{
			client:      c,
			name:        tool.Name,
			description: tool.Description,
			schema:      schema,
		})
	}
	return out, nil
}

// decodeInputSchema recovers the plain JSON schema map from an MCP tool.
func decodeInputSchema(tool mcp.Tool) (map[string]any, error) {
	raw := tool.RawInputSchema
	if len(raw) == 0 {
		encoded, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal input schema: %w", err)
		}
		raw = encoded
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("unmarshal input schema: %w", err)
	}
	return schema, nil
}

// remoteTool proxies a single server-side tool through the MCP connection.
type remoteTool struct {
	client      *Client
	name        string
	description string
	schema      map[string]any
}

func (t *remoteTool) Name() string           { return t.name }
func (t *remoteTool) Description() string    { return t.description }
func (t *remoteTool) Schema() map[string]any { return t.schema }

// Execute calls the remote tool. Server-reported error results come back as
// IsError tool results; transport failures are Go errors.
func (t *remoteTool) Execute(ctx context.Context, args map[string]any) (*tools.ToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	result, err := t.client.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      t.name,
			Arguments: args,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("call tool %s: %w", t.name, err)
	}

	var parts []string
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	return &tools.ToolResult{
		Output:  strings.Join(parts, "\n"),
		IsError: result.IsError,
	}, nil
}
