package simulate

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/language"

	"github.com/abhisek/finwise/internal/screen"
)

func typeText(s *Screen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestSimulatorDefaults(t *testing.T) {
	s := New(&screen.Services{Locale: language.English, Currency: "R"})

	if s.result == nil {
		t.Fatalf("expected a projection, error %q", s.errMsg)
	}
	if s.result.Contributions != 60000 {
		t.Errorf("Contributions = %d, want 60000", s.result.Contributions)
	}
	if s.result.Total != 91473 {
		t.Errorf("Total = %d, want 91473", s.result.Total)
	}
	if !strings.Contains(s.View(100, 40), "R91,473") {
		t.Error("view should show the formatted total")
	}
}

func TestSimulatorRecomputesOnInput(t *testing.T) {
	s := New(&screen.Services{Locale: language.English, Currency: "R"})

	// Clear the monthly field and type a new amount.
	for range 3 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	}
	typeText(s, "0")

	if s.result == nil || s.result.Total != 0 {
		t.Fatalf("zero contribution should project to zero, got %+v", s.result)
	}

	typeText(s, "x")
	if s.form.Inputs[fieldMonthly].Value() != "0" {
		t.Errorf("non-numeric input accepted: %q", s.form.Inputs[fieldMonthly].Value())
	}
}

func TestSimulatorRejectsFractionalYears(t *testing.T) {
	s := New(&screen.Services{Locale: language.English, Currency: "R"})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(s, ".5")

	if s.errMsg == "" {
		t.Error("fractional years should be rejected")
	}
	if !s.Capturing() {
		t.Error("simulator captures text input")
	}
}
