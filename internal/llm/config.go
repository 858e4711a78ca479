package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderNone       = "none"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the model provider. Field tags match the
// llm.* keys of the finwise config file.
type Config struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`

	Anthropic  BackendConfig `mapstructure:"anthropic"`
	OpenAI     BackendConfig `mapstructure:"openai"`
	Gemini     BackendConfig `mapstructure:"gemini"`
	OpenRouter BackendConfig `mapstructure:"openrouter"`
	Retry      RetryConfig   `mapstructure:"retry"`
}

// BackendConfig holds credentials for one provider. BaseURL is honored by
// the OpenAI-compatible backends.
type BackendConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig has no provider selected; the coach stays off until one is
// configured or discovered.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderNone,
		Timeout:    20 * time.Second,
		Anthropic:  BackendConfig{Model: "claude-haiku"},
		OpenAI:     BackendConfig{Model: "gpt-4o-mini"},
		Gemini:     BackendConfig{Model: "gemini-flash"},
		OpenRouter: BackendConfig{Model: "google/gemini-2.0-flash-exp", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
	}
}

// Enabled reports whether a real or mock provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Discover fills in the first provider whose conventional API key variable
// is set. It leaves cfg unchanged and returns false when none is.
func Discover(cfg Config) (Config, bool) {
	probes := []struct {
		env      string
		provider string
		backend  *BackendConfig
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			p.backend.APIKey = k
			cfg.Provider = p.provider
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks the selected provider has an API key.
func (c Config) Validate() error {
	var backend BackendConfig
	switch c.Provider {
	case "", ProviderNone, ProviderMock:
		return nil
	case ProviderAnthropic:
		backend = c.Anthropic
	case ProviderOpenAI:
		backend = c.OpenAI
	case ProviderGemini:
		backend = c.Gemini
	case ProviderOpenRouter:
		backend = c.OpenRouter
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if backend.APIKey == "" {
		return fmt.Errorf("llm.%s.api_key is required for the %s provider", c.Provider, c.Provider)
	}
	return nil
}
