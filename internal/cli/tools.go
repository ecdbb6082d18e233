package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chatrelay-ai/chatrelay/internal/config"
	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/mcp"
	"github.com/chatrelay-ai/chatrelay/internal/tools"
	"github.com/chatrelay-ai/chatrelay/internal/weather"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Start the MCP tools server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Tools.Validate(); err != nil {
				return err
			}
			if err := cfg.Weather.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := newWeatherService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			registry, err := tools.NewDefaultRegistry(cfg.DataDir(), svc)
			if err != nil {
				return err
			}

			srv := mcp.NewServer("chatrelay-tools", Version, registry)
			return srv.ServeSSE(ctx, cfg.Tools.Listen)
		},
	}
}

// newWeatherService builds the weather service with the configured cache
// backend. The cleanup func closes the Redis connection when one is used.
func newWeatherService(ctx context.Context, cfg *config.Config) (*weather.Service, func(), error) {
	var cache weather.Cache
	cleanup := func() {}

	if cfg.Weather.RedisURL != "" {
		redisCache, err := weather.NewRedisCache(ctx, cfg.Weather.RedisURL, cfg.Weather.TTL)
		if err != nil {
			return nil, nil, err
		}
		cache = redisCache
		cleanup = func() {
			if err := redisCache.Close(); err != nil {
				logging.Logger().Warn("close redis cache", "err", err)
			}
		}
		logging.Logger().Info("weather cache backend", "backend", "redis")
	} else {
		cache = weather.NewMemoryCache(cfg.Weather.TTL)
	}

	return weather.NewService(weather.NewClient(cfg.Weather.APIKey), cache), cleanup, nil
}
