// Package tools defines the Tool interface and Registry shared by the agent
// loop and the MCP tools server.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/provider"
)

// Tool is a named operation exposed to the LLM.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]any
	Execute(ctx context.Context, args map[string]any) (*ToolResult, error)
}

// ToolResult is the normalized output returned by tools.
//
// User-input failures (bad operation, division by zero, path traversal) are
// reported as results with IsError set, not as Go errors: they belong in the
// conversation so the model can react. Go errors are reserved for
// argument-shape problems and infrastructure faults.
type ToolResult struct {
	Output  string
	IsError bool
}

// errorResult renders a user-facing error string as a tool result.
func errorResult(format string, args ...any) *ToolResult {
	return &ToolResult{Output: fmt.Sprintf(format, args...), IsError: true}
}

// Registry stores tools by unique name.
type Registry struct {
	byName map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register adds a tool by unique name.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return errors.New("tool cannot be nil")
	}
	name := tool.Name()
	if name == "" {
		return errors.New("tool name cannot be empty")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.byName[name] = tool
	return nil
}

// Lookup returns a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Tools returns all registered tools in stable name order.
func (r *Registry) Tools() []Tool {
	keys := make([]string, 0, len(r.byName))
	for name := range r.byName {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	out := make([]Tool, 0, len(keys))
	for _, name := range keys {
		out = append(out, r.byName[name])
	}
	return out
}

// ToolDefinitions converts registered tools into LLM request tool definitions.
func (r *Registry) ToolDefinitions() []provider.ToolDefinition {
	tools := r.Tools()
	defs := make([]provider.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, provider.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Schema(),
		})
	}
	return defs
}

// Invoke executes a tool with start/complete logging, elapsed time, and a
// per-invocation correlation id. All tool call sites go through here so the
// tool logs look the same whether a call arrives over MCP or in-process.
func Invoke(ctx context.Context, tool Tool, args map[string]any) (*ToolResult, error) {
	requestID := uuid.NewString()
	startedAt := time.Now()
	log := logging.Logger().With("tool", tool.Name(), "request_id", requestID)

	log.Debug("tool start", "args", args)

	result, err := tool.Execute(ctx, args)
	elapsed := time.Since(startedAt).Milliseconds()
	if err != nil {
		log.Error("tool error", "elapsed_ms", elapsed, "err", err)
		return nil, err
	}

	if result.IsError {
		log.Warn("tool complete with error result", "elapsed_ms", elapsed, "output", result.Output)
	} else {
		log.Info("tool complete", "elapsed_ms", elapsed, "output_bytes", len(result.Output))
	}
	return result, nil
}
