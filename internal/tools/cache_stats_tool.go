package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chatrelay-ai/chatrelay/internal/weather"
)

// CacheStatsTool reports weather cache hit/miss counters as JSON.
type CacheStatsTool struct {
	Service *weather.Service
}

// Name returns the tool name.
func (t CacheStatsTool) Name() string {
	return "get_cache_stats"
}

// Description returns the tool description for the model.
func (t CacheStatsTool) Description() string {
	return "Get weather cache statistics including hits, misses, and hit rate"
}

// Schema returns the JSON schema for get_cache_stats args.
func (t CacheStatsTool) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Execute renders the current cache counters.
func (t CacheStatsTool) Execute(ctx context.Context, _ map[string]any) (*ToolResult, error) {
	stats, err := t.Service.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cache stats: %w", err)
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cache stats: %w", err)
	}
	return &ToolResult{Output: string(out)}, nil
}
