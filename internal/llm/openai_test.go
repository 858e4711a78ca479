package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func openAIServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var got map[string]any
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"tip":"Automate savings."}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 9, "total_tokens": 39},
		})
	})

	p, err := NewOpenAIProvider(BackendConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: url})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	resp, err := p.Generate(t.Context(), Request{
		System:    "coach",
		Messages:  []Message{{Role: RoleUser, Content: "tip"}},
		Schema:    testSchema,
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 30 || resp.Usage.OutputTokens != 9 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Fatalf("unexpected model %q", resp.Model)
	}

	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", format["type"])
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit_exceeded"},
		})
	})

	p, _ := NewOpenAIProvider(BackendConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: url})
	_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 8})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "model": "gpt-4o", "choices": []any{}})
	})

	p, _ := NewOpenAIProvider(BackendConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: url})
	_, err := p.Generate(t.Context(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 8})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(BackendConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("model = %q, want pass-through", p.ModelID())
	}
	if p.strict {
		t.Error("openrouter should not request strict schemas")
	}

	if _, err := NewOpenRouterProvider(BackendConfig{Model: "x"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
