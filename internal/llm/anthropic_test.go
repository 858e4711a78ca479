package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

var testSchema = &Schema{
	Name: "test-tip",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip": map[string]any{"type": "string"},
		},
		"required": []any{"tip"},
	},
}

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(BackendConfig{
		APIKey:  "test-key",
		Model:   "claude-sonnet",
		BaseURL: server.URL,
	}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-sonnet-4-20250514",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
		})
	}
}

func anthropicError(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := newTestAnthropic(t, anthropicReply(`{"tip":"Pay yourself first."}`, "end_turn"))

	resp, err := p.Generate(t.Context(), Request{
		System:    "You are a finance coach.",
		Messages:  []Message{{Role: RoleUser, Content: "One tip please."}},
		Schema:    testSchema,
		MaxTokens: 128,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 52 {
		t.Fatalf("expected 52 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}
	if resp.Model != "claude-sonnet-4-20250514" {
		t.Fatalf("unexpected model %q", resp.Model)
	}
}

func TestAnthropicProvider_SchemaMismatch(t *testing.T) {
	p := newTestAnthropic(t, anthropicReply(`{"advice":"spend less"}`, "end_turn"))

	_, err := p.Generate(t.Context(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "tip"}},
		Schema:    testSchema,
		MaxTokens: 128,
	})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropic(t, anthropicReply(`{"tip":"Pay"}`, "max_tokens"))

	_, err := p.Generate(t.Context(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "tip"}},
		Schema:    testSchema,
		MaxTokens: 4,
	})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		p := newTestAnthropic(t, anthropicError(http.StatusTooManyRequests, "rate_limit_error"))
		_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 8})
		var rl *ErrRateLimit
		if !errors.As(err, &rl) {
			t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
		}
	})
	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropic(t, anthropicError(http.StatusInternalServerError, "api_error"))
		_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 8})
		var unavail *ErrProviderUnavailable
		if !errors.As(err, &unavail) {
			t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
		}
	})
}

func TestAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(BackendConfig{Model: "claude-haiku"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		input   string
		aliases map[string]string
		want    string
	}{
		{"claude-sonnet", anthropicModels, "claude-sonnet-4-20250514"},
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"claude-opus-4-1", anthropicModels, "claude-opus-4-1"},
		{"gemini-flash", geminiModels, "gemini-2.0-flash"},
		{"gpt-4o-mini", openaiModels, "gpt-4o-mini"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
