package tools

import (
	"github.com/chatrelay-ai/chatrelay/internal/weather"
)

// NewDefaultRegistry registers the fixed tool set served to models:
// calculator, get_weather, read_file, and get_cache_stats.
func NewDefaultRegistry(dataDir string, svc *weather.Service) (*Registry, error) {
	registry := NewRegistry()
	coreTools := []Tool{
		CalculatorTool{},
		WeatherTool{Service: svc},
		ReadFileTool{DataDir: dataDir},
		CacheStatsTool{Service: svc},
	}
	for _, tool := range coreTools {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
