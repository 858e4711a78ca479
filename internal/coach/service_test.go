package coach

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/finwise/internal/llm"
)

func validExplanationJSON() json.RawMessage {
	return json.RawMessage(`{
		"summary": "Paying the full balance means no interest is charged.",
		"tip": "Set a debit order for the full statement amount.",
		"example": "Owe R1,000 and pay R1,000: you pay R0 interest."
	}`)
}

func testInput() Input {
	return Input{
		LessonTitle: "Good Debt, Bad Debt",
		Question:    "Which habit keeps credit card debt from growing?",
		Options:     []string{"Paying only the minimum", "Paying the full balance"},
		Chosen:      "Paying only the minimum",
		CorrectText: "Paying the full balance",
		Rationale:   "No balance left over means no interest charged.",
		Locale:      "en",
	}
}

func TestService_Explains(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExplanationJSON()})
	svc := NewService(mock, DefaultConfig(), nil)

	got, err := svc.Explain(t.Context(), testInput())
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if !strings.Contains(got.Summary, "full balance") {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Tip == "" || got.Example == "" {
		t.Errorf("expected tip and example, got %+v", got)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	req := calls[0]
	if req.Schema == nil || req.Schema.Name != "answer-explanation" {
		t.Error("expected schema name 'answer-explanation'")
	}
	if !strings.Contains(req.Messages[0].Content, "The student was wrong.") {
		t.Errorf("prompt missing correctness line:\n%s", req.Messages[0].Content)
	}
}

func TestService_Disabled(t *testing.T) {
	svc := NewService(nil, DefaultConfig(), nil)
	if svc.Enabled() {
		t.Error("Enabled() = true with nil provider")
	}
	if _, err := svc.Explain(t.Context(), testInput()); !errors.Is(err, ErrDisabled) {
		t.Errorf("Explain() error = %v, want ErrDisabled", err)
	}
}

func TestService_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	svc := NewService(mock, DefaultConfig(), nil)

	_, err := svc.Explain(t.Context(), testInput())
	var unavailable *llm.ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("Explain() error = %v, want ErrProviderUnavailable", err)
	}
}

func TestPromptLocale(t *testing.T) {
	in := testInput()
	in.Locale = "es"
	if msg := buildUserMessage(in); !strings.Contains(msg, `"es"`) {
		t.Errorf("prompt does not request Spanish:\n%s", msg)
	}
	in.Locale = "en-GB"
	if msg := buildUserMessage(in); strings.Contains(msg, "BCP 47") {
		t.Error("English prompt should not request a language")
	}
}

func TestFallback(t *testing.T) {
	in := testInput()
	if got := Fallback(in).Summary; got != in.Rationale {
		t.Errorf("Fallback().Summary = %q, want rationale", got)
	}
	in.Rationale = ""
	if got := Fallback(in).Summary; !strings.Contains(got, in.CorrectText) {
		t.Errorf("Fallback().Summary = %q, want correct answer", got)
	}
}
