// Package profile signs the local user in and out. There is no
// authentication; the name only selects whose progress is used.
package profile

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/ui/components"
	"github.com/abhisek/finwise/internal/ui/layout"
	"github.com/abhisek/finwise/internal/ui/theme"
)

type Screen struct {
	svc    *screen.Services
	input  components.TextInput
	status string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(svc *screen.Services) *Screen {
	in := components.NewTextInput("Your name", "thandi", false, 32)
	in.SetValue(svc.UserID())
	return &Screen{svc: svc, input: in}
}

func (s *Screen) Init() tea.Cmd { return s.input.Focus() }

func (s *Screen) Title() string { return "Profile" }

func (s *Screen) Capturing() bool { return true }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+O", Description: "Sign out"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter":
			return s, s.signIn(s.input.Value())
		case "ctrl+o":
			s.input.SetValue("")
			return s, s.signIn("")
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) signIn(name string) tea.Cmd {
	if s.svc.Users == nil {
		return nil
	}
	s.svc.Users.SignIn(name)
	if user := s.svc.UserID(); user != "" {
		s.status = "Signed in as " + user + "."
		s.svc.Log().Info("signed in")
	} else {
		s.status = "Signed out. Progress will not be saved."
		s.svc.Log().Info("signed out")
	}
	return func() tea.Msg { return screen.StatusChangedMsg{} }
}

func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Profile"))
	b.WriteString("\n\n")

	current := s.svc.UserID()
	if current == "" {
		b.WriteString(theme.Hint.Render("Not signed in."))
	} else {
		b.WriteString(theme.Body.Render("Signed in as ") + theme.Selected.Render(current))
	}
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	if s.status != "" {
		b.WriteString("\n\n" + theme.Correct.Render(s.status))
	}
	return layout.Center(theme.Card.Width(cw+6).Render(b.String()), width, height)
}
