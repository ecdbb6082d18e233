package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chatrelay-ai/chatrelay/internal/config"
	"github.com/chatrelay-ai/chatrelay/internal/costs"
	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/mcp"
	"github.com/chatrelay-ai/chatrelay/internal/provider"
	"github.com/chatrelay-ai/chatrelay/internal/server"
	"github.com/chatrelay-ai/chatrelay/internal/tools"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP chat server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			llm := cfg.DefaultLLM()
			p, err := providerFactory(llm)
			if err != nil {
				return err
			}
			rotator, err := provider.NewRotator(llm.RotationModels())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry, cleanup, err := buildRegistry(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := server.New(p, rotator, registry, server.Options{
				Listen:        cfg.Server.Listen,
				SystemPrompt:  cfg.Agent.SystemPrompt,
				MaxIterations: cfg.Agent.MaxIterations,
				ProviderName:  llm.Provider,
				Tracker:       costs.New(cfg.UsagePath()),
			})
			return srv.Run(ctx)
		},
	}
}

// buildRegistry returns the tool set the chat server will call: remote MCP
// tools when tools.url is configured, the in-process set otherwise.
func buildRegistry(ctx context.Context, cfg *config.Config) (*tools.Registry, func(), error) {
	if cfg.Tools.URL == "" {
		svc, cleanup, err := newWeatherService(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		registry, err := tools.NewDefaultRegistry(cfg.DataDir(), svc)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return registry, cleanup, nil
	}

	client, err := mcp.Dial(ctx, cfg.Tools.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect tools server %s: %w", cfg.Tools.URL, err)
	}
	remote, err := client.Tools(ctx)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	registry := tools.NewRegistry()
	for _, tool := range remote {
		if err := registry.Register(tool); err != nil {
			client.Close()
			return nil, nil, err
		}
	}
	logging.Logger().Info("using remote tools", "url", cfg.Tools.URL, "tool_count", len(remote))

	cleanup := func() {
		if err := client.Close(); err != nil {
			logging.Logger().Warn("close tools client", "err", err)
		}
	}
	return registry, cleanup, nil
}
