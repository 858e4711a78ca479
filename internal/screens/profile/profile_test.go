package profile

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/finwise/internal/identity"
	"github.com/abhisek/finwise/internal/screen"
)

func TestProfileSignInAndOut(t *testing.T) {
	svc := &screen.Services{Users: identity.NewSession("")}
	s := New(svc)
	s.Init()

	for _, r := range "sipho" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("sign in should refresh the header")
	}
	if _, ok := cmd().(screen.StatusChangedMsg); !ok {
		t.Fatalf("expected StatusChangedMsg, got %T", cmd())
	}
	if got := svc.UserID(); got != "sipho" {
		t.Errorf("UserID() = %q, want sipho", got)
	}

	s.Update(tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl})
	if got := svc.UserID(); got != "" {
		t.Errorf("UserID() after sign out = %q, want empty", got)
	}
}
