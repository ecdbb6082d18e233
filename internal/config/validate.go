package config

import (
	"errors"
	"fmt"
)

// Validatable is implemented by config sections that can self-validate.
type Validatable interface {
	Validate() error
}

// Validate checks required LLM provider fields and provider-specific rules.
func (c LLMProviderConfig) Validate() error {
	if c.Provider == "" {
		return errors.New("provider is required")
	}
	if c.Model == "" && len(c.Models) == 0 {
		return errors.New("model or models is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be > 0")
	}
	for i, model := range c.Models {
		if model == "" {
			return fmt.Errorf("models[%d] cannot be empty", i)
		}
	}

	switch c.Provider {
	case "anthropic":
		if c.APIKey == "" {
			return errors.New("api_key is required")
		}
	case "openai":
		// Local OpenAI-compatible endpoints accept any key, so none is required.
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	return nil
}

// Validate checks the chat server section.
func (c ServerConfig) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is required")
	}
	return nil
}

// Validate checks the tools server section.
func (c ToolsConfig) Validate() error {
	if c.Listen == "" && c.URL == "" {
		return errors.New("listen address or url is required")
	}
	return nil
}

// Validate checks agent loop settings.
func (c AgentConfig) Validate() error {
	if c.MaxIterations <= 0 {
		return errors.New("max_iterations must be > 0")
	}
	return nil
}

// Validate checks weather cache settings.
func (c WeatherConfig) Validate() error {
	if c.TTL <= 0 {
		return errors.New("ttl must be > 0")
	}
	return nil
}

// Validate validates startup configuration and returns the first fatal error.
func (cfg *Config) Validate() error {
	var errs []error

	if len(cfg.LLM) == 0 {
		errs = append(errs, errors.New("at least one llm.* profile is required"))
	}
	for profile, llm := range cfg.LLM {
		if err := llm.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("llm.%s: %w", profile, err))
		}
	}
	if err := cfg.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := cfg.Tools.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tools: %w", err))
	}
	if err := cfg.Agent.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("agent: %w", err))
	}
	if err := cfg.Weather.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("weather: %w", err))
	}

	return errors.Join(errs...)
}
