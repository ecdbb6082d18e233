package tools

import (
	"context"
	"errors"

	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/weather"
)

// WeatherTool looks up current conditions for a city through the cached
// weather service.
type WeatherTool struct {
	Service *weather.Service
}

// Name returns the tool name.
func (t WeatherTool) Name() string {
	return "get_weather"
}

// Description returns the tool description for the model.
func (t WeatherTool) Description() string {
	return "Get current weather information for a city"
}

// Schema returns the JSON schema for get_weather args.
func (t WeatherTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{
				"type":        "string",
				"description": "Name of the city (e.g., 'London', 'New York')",
			},
		},
		"required": []string{"city"},
	}
}

// Execute resolves the weather report, serving from cache while the TTL
// holds. Upstream failures become error results for the model.
func (t WeatherTool) Execute(ctx context.Context, args map[string]any) (*ToolResult, error) {
	city, err := stringArg(args, "city")
	if err != nil {
		return nil, err
	}

	report, hit, err := t.Service.Lookup(ctx, city)
	if err != nil {
		if errors.Is(err, weather.ErrNotConfigured) {
			return errorResult("Weather service not configured. Please set the weather API key."), nil
		}
		var upstream *weather.UpstreamError
		if errors.As(err, &upstream) {
			logging.Logger().Error("weather lookup failed", "city", city, "kind", upstream.Kind, "err", upstream.Err)
			if upstream.Kind == weather.ErrKindDecode {
				return errorResult("Error parsing weather data for %s.", city), nil
			}
			return errorResult("Error fetching weather data for %s. Please check the city name.", city), nil
		}
		return nil, err
	}

	logging.Logger().Info("weather lookup", "city", city, "cache_hit", hit)
	return &ToolResult{Output: report}, nil
}
