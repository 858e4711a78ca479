package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/llm"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("coach disabled")

// Service generates answer explanations.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a coach. A nil provider yields a disabled coach.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

type explanationOutput struct {
	Summary string `json:"summary"`
	Tip     string `json:"tip"`
	Example string `json:"example"`
}

// Explain blocks until the provider answers or the configured timeout
// passes. The TUI runs it inside a tea.Cmd.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	ctx = llm.WithPurpose(ctx, "explain")
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.logger.Warn("coach request failed", zap.String("question", in.Question), zap.Error(err))
		return nil, fmt.Errorf("explain answer: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}

	return &Explanation{
		Summary: out.Summary,
		Tip:     out.Tip,
		Example: out.Example,
	}, nil
}

// Fallback is shown when the coach is disabled or fails.
func Fallback(in Input) *Explanation {
	summary := in.Rationale
	if summary == "" {
		summary = fmt.Sprintf("The correct answer is: %s.", in.CorrectText)
	}
	return &Explanation{Summary: summary}
}
