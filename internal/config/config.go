// Package config loads chatrelay runtime configuration from a TOML file and environment variables, exposing typed structs and accessors for all sections.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const defaultProfile = "default"

// Config is the runtime configuration loaded from defaults, config.toml, and env vars.
type Config struct {
	// HomeDir is runtime-resolved from CHATRELAY_HOME and not read from config.
	HomeDir string                       `mapstructure:"-"`
	Server  ServerConfig                 `mapstructure:"server"`
	Tools   ToolsConfig                  `mapstructure:"tools"`
	LLM     map[string]LLMProviderConfig `mapstructure:"llm"`
	Agent   AgentConfig                  `mapstructure:"agent"`
	Weather WeatherConfig                `mapstructure:"weather"`
}

// ServerConfig configures the HTTP chat server.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// ToolsConfig configures the MCP tools server and how the chat server reaches it.
type ToolsConfig struct {
	Listen string `mapstructure:"listen"`
	// URL is the base URL of a remote MCP tools server. When empty the chat
	// server runs the tool set in-process instead.
	URL string `mapstructure:"url"`
}

// LLMProviderConfig configures one LLM provider profile.
type LLMProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	// Models is an ordered list used for per-request round-robin rotation.
	// When empty, every request uses Model.
	Models         []string      `mapstructure:"models"`
	BaseURL        string        `mapstructure:"base_url"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// AgentConfig controls the tool-call loop.
type AgentConfig struct {
	MaxIterations int    `mapstructure:"max_iterations"`
	SystemPrompt  string `mapstructure:"system_prompt"`
}

// WeatherConfig configures the upstream weather API and its cache.
type WeatherConfig struct {
	APIKey string        `mapstructure:"api_key"`
	TTL    time.Duration `mapstructure:"ttl"`
	// RedisURL selects a Redis-backed cache when set; otherwise the cache
	// is an in-process map.
	RedisURL string `mapstructure:"redis_url"`
}

var defaultConfig = Config{
	Server: ServerConfig{
		Listen: ":8080",
	},
	Tools: ToolsConfig{
		Listen: ":8090",
		URL:    "",
	},
	LLM: map[string]LLMProviderConfig{
		defaultProfile: {
			APIKey:         "",
			Provider:       "openai",
			Model:          "gpt-4.1-mini",
			BaseURL:        "https://models.inference.ai.azure.com",
			MaxTokens:      4096,
			RequestTimeout: 30 * time.Second,
		},
	},
	Agent: AgentConfig{
		MaxIterations: 10,
		SystemPrompt:  defaultSystemPrompt,
	},
	Weather: WeatherConfig{
		APIKey: "",
		TTL:    10 * time.Minute,
	},
}

const defaultSystemPrompt = "You are a helpful AI assistant with access to the following tools:\n" +
	"1. calculator - Perform arithmetic operations (add, subtract, multiply, divide)\n" +
	"2. get_weather - Get current weather for a city\n" +
	"3. read_file - Read files from the data directory\n" +
	"Use the tools when they help answer the user's question, and reply with a concise final answer."

// homeDir returns the chatrelay home directory.
// Uses CHATRELAY_HOME env var if set, otherwise defaults to ~/.chatrelay.
func homeDir() (string, error) {
	if dir := os.Getenv("CHATRELAY_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return defaultHomePath(home), nil
}

// Load merges hardcoded defaults and config file values in that order.
// Config is always at $CHATRELAY_HOME/config.toml.
func Load() (*Config, error) {
	homeDir, err := homeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		expandEnvStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = decodeHook
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = homeDir

	return &cfg, nil
}

// Write writes the merged configuration (defaults overlaid by user
// config) to w in TOML format.
func Write(w io.Writer) error {
	if w == nil {
		return errors.New("writer is required")
	}

	homeDir, err := homeDir()
	if err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	// Keep duration fields human-readable in generated TOML.
	v.Set("llm.default.request_timeout", v.GetDuration("llm.default.request_timeout").String())
	v.Set("weather.ttl", v.GetDuration("weather.ttl").String())

	if err := v.WriteConfigTo(w); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultUserConfigTOML renders the minimal first-run user config as TOML.
// API keys reference environment variables so the file is safe to commit.
func DefaultUserConfigTOML() (string, error) {
	v := viper.New()
	v.SetConfigType("toml")

	llm := defaultConfig.LLM[defaultProfile]
	v.Set("llm.default.api_key", "$GITHUB_TOKEN")
	v.Set("llm.default.provider", llm.Provider)
	v.Set("llm.default.model", llm.Model)
	v.Set("llm.default.base_url", llm.BaseURL)
	v.Set("llm.default.request_timeout", llm.RequestTimeout.String())
	v.Set("weather.api_key", "$OPENWEATHER_API_KEY")
	v.Set("weather.ttl", defaultConfig.Weather.TTL.String())

	var out bytes.Buffer
	if err := v.WriteConfigTo(&out); err != nil {
		return "", fmt.Errorf("write default user config: %w", err)
	}
	return out.String(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", defaultConfig.Server.Listen)

	v.SetDefault("tools.listen", defaultConfig.Tools.Listen)
	v.SetDefault("tools.url", defaultConfig.Tools.URL)

	v.SetDefault("llm.default.api_key", defaultConfig.LLM[defaultProfile].APIKey)
	v.SetDefault("llm.default.provider", defaultConfig.LLM[defaultProfile].Provider)
	v.SetDefault("llm.default.model", defaultConfig.LLM[defaultProfile].Model)
	v.SetDefault("llm.default.base_url", defaultConfig.LLM[defaultProfile].BaseURL)
	v.SetDefault("llm.default.max_tokens", defaultConfig.LLM[defaultProfile].MaxTokens)
	v.SetDefault("llm.default.request_timeout", defaultConfig.LLM[defaultProfile].RequestTimeout)

	v.SetDefault("agent.max_iterations", defaultConfig.Agent.MaxIterations)
	v.SetDefault("agent.system_prompt", defaultConfig.Agent.SystemPrompt)

	v.SetDefault("weather.api_key", defaultConfig.Weather.APIKey)
	v.SetDefault("weather.ttl", defaultConfig.Weather.TTL)
	v.SetDefault("weather.redis_url", defaultConfig.Weather.RedisURL)
}

// DefaultLLM returns the default LLM profile with fallback defaults.
func (c *Config) DefaultLLM() LLMProviderConfig {
	if llm, ok := c.LLM[defaultProfile]; ok {
		return llm
	}
	return defaultConfig.LLM[defaultProfile]
}

// RotationModels returns the model identifiers used for round-robin
// selection: the configured list, or the single model when no list is set.
func (c LLMProviderConfig) RotationModels() []string {
	if len(c.Models) > 0 {
		return c.Models
	}
	return []string{c.Model}
}

func expandEnvStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return os.ExpandEnv(value), nil
	}
}
