package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/ui/theme"
)

// ChoiceMsg is emitted when the learner picks an option.
type ChoiceMsg struct {
	OptionID string
}

// MultiChoice renders a quiz page's options. It only emits ChoiceMsg; the
// lesson player decides whether the answer is accepted, and the screen
// reveals the result with Lock.
type MultiChoice struct {
	Question string
	Options  []lessons.Option
	Cursor   int

	locked  bool
	chosen  string
	correct string
}

// NewMultiChoice builds the selector for a quiz page.
func NewMultiChoice(page *lessons.Page) MultiChoice {
	return MultiChoice{Question: page.Question, Options: page.Options}
}

// Lock shows chosen and the correct option and stops accepting input.
func (m *MultiChoice) Lock(chosen, correct string) {
	m.locked = true
	m.chosen = chosen
	m.correct = correct
	for i, o := range m.Options {
		if o.ID == chosen {
			m.Cursor = i
		}
	}
}

// Locked reports whether an answer is shown.
func (m MultiChoice) Locked() bool { return m.locked }

// Update handles arrow keys, letter shortcuts and enter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if m.locked || !ok || len(m.Options) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Cursor = max(0, m.Cursor-1)
		return m, nil
	case "down", "j":
		m.Cursor = min(len(m.Options)-1, m.Cursor+1)
		return m, nil
	case "enter", "space":
		return m, m.choose(m.Cursor)
	}
	if len(key) == 1 {
		if i := int(strings.ToLower(key)[0] - 'a'); i >= 0 && i < len(m.Options) {
			m.Cursor = i
			return m, m.choose(i)
		}
	}
	return m, nil
}

func (m MultiChoice) choose(i int) tea.Cmd {
	id := m.Options[i].ID
	return func() tea.Msg { return ChoiceMsg{OptionID: id} }
}

// View renders the question and options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt.Text)

		style := theme.Unselected
		switch {
		case m.locked && opt.ID == m.correct:
			style = theme.Correct
			line += "  ✓"
		case m.locked && opt.ID == m.chosen:
			style = theme.Incorrect
			line += "  ✗"
		case m.locked:
			style = theme.Hint
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
