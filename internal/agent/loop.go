// Package agent runs the bounded tool-call loop between an LLM provider and
// the tool registry.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/provider"
	"github.com/chatrelay-ai/chatrelay/internal/tools"
)

const defaultMaxIterations = 10

// Run executes the agent loop until the model returns a final text response
// or the iteration cap is hit.
//
// Tool failures never abort the loop: unknown tools, malformed arguments, and
// execution errors are appended to the conversation as tool-result content so
// the model decides how to respond. Only provider errors propagate.
func Run(
	ctx context.Context,
	p provider.Provider,
	registry *tools.Registry,
	systemPrompt string,
	model string,
	messages []provider.ChatMessage,
	maxIterations int,
) (*provider.ChatResponse, []provider.ChatMessage, error) {
	if p == nil {
		return nil, nil, fmt.Errorf("provider is required")
	}
	if registry == nil {
		return nil, nil, fmt.Errorf("tool registry is required")
	}
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	history := append([]provider.ChatMessage(nil), messages...)
	toolDefs := registry.ToolDefinitions()
	availableTools := toolNames(toolDefs)
	totalUsage := provider.TokenUsage{}

	for i := 0; i < maxIterations; i++ {
		// Each iteration sends the full conversation state and available tools.
		// The model either returns final text or a set of tool calls.
		logging.Logger().Info(
			"llm request",
			"iteration", i+1,
			"model", model,
			"message_count", len(history),
			"tool_count", len(toolDefs),
		)

		resp, err := p.Chat(ctx, provider.ChatRequest{
			Model:        model,
			SystemPrompt: systemPrompt,
			Messages:     history,
			Tools:        toolDefs,
		})
		if err != nil {
			return nil, history, err
		}
		logging.Logger().Info(
			"llm response",
			"iteration", i+1,
			"tool_call_count", len(resp.ToolCalls),
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)

		totalUsage.InputTokens += resp.Usage.InputTokens
		totalUsage.OutputTokens += resp.Usage.OutputTokens
		totalUsage.TotalTokens += resp.Usage.TotalTokens

		if len(resp.ToolCalls) == 0 {
			// No tool calls means we are done for this turn.
			if resp.Content != "" {
				history = append(history, provider.ChatMessage{
					Role:    provider.RoleAssistant,
					Content: resp.Content,
				})
			}
			resp.Usage = totalUsage
			return resp, history, nil
		}

		history = append(history, provider.ChatMessage{
			Role:      provider.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			tool, ok := registry.Lookup(call.Name)
			if !ok {
				logging.Logger().Warn(
					"tool call rejected: unknown tool",
					"tool", call.Name,
					"tool_call_id", call.ID,
					"available_tools", availableTools,
				)
				history = append(history, provider.ChatMessage{
					Role:       provider.RoleTool,
					ToolCallID: call.ID,
					Content: fmt.Sprintf(
						"tool execution error: unknown tool %q. Available tools: %s. Use an available tool name exactly.",
						call.Name,
						availableTools,
					),
				})
				continue
			}

			args := map[string]any{}
			if call.Arguments != "" {
				if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
					logging.Logger().Warn(
						"tool call rejected: invalid arguments",
						"tool", call.Name,
						"tool_call_id", call.ID,
						"arguments", call.Arguments,
						"err", err,
					)
					history = append(history, provider.ChatMessage{
						Role:       provider.RoleTool,
						ToolCallID: call.ID,
						Content:    fmt.Sprintf("tool execution error: invalid tool arguments for %q: %v", call.Name, err),
					})
					continue
				}
			}

			result, err := tools.Invoke(ctx, tool, args)
			if err != nil {
				history = append(history, provider.ChatMessage{
					Role:       provider.RoleTool,
					ToolCallID: call.ID,
					Content:    fmt.Sprintf("tool execution error: %v", err),
				})
				continue
			}

			history = append(history, provider.ChatMessage{
				Role:       provider.RoleTool,
				ToolCallID: call.ID,
				Content:    result.Output,
			})
		}
	}

	return nil, history, fmt.Errorf("max iterations exceeded (%d)", maxIterations)
}

func toolNames(defs []provider.ToolDefinition) string {
	if len(defs) == 0 {
		return "<none>"
	}
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return strings.Join(names, ", ")
}
