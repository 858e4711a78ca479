package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/metrics"
	"github.com/abhisek/finwise/internal/store"
)

// Deps are the shared services a provider chain reports to. Any may be nil.
type Deps struct {
	Events  store.EventRepo
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewProvider builds the configured provider wrapped as
// caller → retry → recording → backend. It returns (nil, nil) when no
// provider is selected.
func NewProvider(ctx context.Context, cfg Config, deps Deps) (Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", cfg.Provider, err)
	}

	recorded := WithRecording(base, cfg.Provider, deps.Events, deps.Logger, deps.Metrics)
	return WithRetry(recorded, cfg.Retry, deps.Logger), nil
}
