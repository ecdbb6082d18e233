package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	home := filepath.Join(t.TempDir(), ".chatrelay")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home dir: %v", err)
	}
	t.Setenv("CHATRELAY_HOME", home)
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	writeConfig(t, `
[server]
listen = ":9999"

[llm.default]
api_key = "test-key"
provider = "anthropic"
model = "claude-sonnet-4-5"

[weather]
ttl = "30s"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Server.Listen != ":9999" {
		t.Fatalf("expected listen :9999, got %q", cfg.Server.Listen)
	}
	llm := cfg.DefaultLLM()
	if llm.Provider != "anthropic" {
		t.Fatalf("expected provider anthropic, got %q", llm.Provider)
	}
	if llm.Model != "claude-sonnet-4-5" {
		t.Fatalf("expected model from file, got %q", llm.Model)
	}
	if cfg.Weather.TTL != 30*time.Second {
		t.Fatalf("expected weather ttl 30s, got %s", cfg.Weather.TTL)
	}
	// Untouched sections keep their defaults.
	if cfg.Tools.Listen != ":8090" {
		t.Fatalf("expected default tools listen, got %q", cfg.Tools.Listen)
	}
	if cfg.Agent.MaxIterations != 10 {
		t.Fatalf("expected default max_iterations 10, got %d", cfg.Agent.MaxIterations)
	}
}

func TestLoad_ExpandsEnvVarsInStringValues(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "expanded-key")
	writeConfig(t, `
[weather]
api_key = "$OPENWEATHER_API_KEY"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Weather.APIKey != "expanded-key" {
		t.Fatalf("expected env-expanded api key, got %q", cfg.Weather.APIKey)
	}
}

func TestLoad_MissingConfigFileUsesDefaults(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".chatrelay")
	t.Setenv("CHATRELAY_HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config without file: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Fatalf("expected default listen, got %q", cfg.Server.Listen)
	}
	if cfg.Weather.TTL != 10*time.Minute {
		t.Fatalf("expected default ttl, got %s", cfg.Weather.TTL)
	}
}

func TestRotationModels(t *testing.T) {
	single := LLMProviderConfig{Model: "gpt-4.1-mini"}
	if got := single.RotationModels(); len(got) != 1 || got[0] != "gpt-4.1-mini" {
		t.Fatalf("expected single-model rotation list, got %v", got)
	}

	multi := LLMProviderConfig{Model: "gpt-4.1-mini", Models: []string{"a", "b", "c"}}
	got := multi.RotationModels()
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("expected configured model list, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name: "anthropic requires api key",
			mutate: func(cfg *Config) {
				cfg.LLM["default"] = LLMProviderConfig{
					Provider:       "anthropic",
					Model:          "claude-sonnet-4-5",
					RequestTimeout: time.Second,
				}
			},
			wantErr: true,
		},
		{
			name: "unknown provider rejected",
			mutate: func(cfg *Config) {
				cfg.LLM["default"] = LLMProviderConfig{
					Provider:       "cohere",
					Model:          "command",
					RequestTimeout: time.Second,
				}
			},
			wantErr: true,
		},
		{
			name: "empty model in rotation list rejected",
			mutate: func(cfg *Config) {
				llm := cfg.LLM["default"]
				llm.Models = []string{"gpt-4.1-mini", ""}
				cfg.LLM["default"] = llm
			},
			wantErr: true,
		},
		{
			name: "non-positive max iterations rejected",
			mutate: func(cfg *Config) {
				cfg.Agent.MaxIterations = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := filepath.Join(t.TempDir(), ".chatrelay")
			t.Setenv("CHATRELAY_HOME", home)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
