package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/shopspring/decimal"

	"github.com/abhisek/finwise/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and an optional numeric
// filter.
type TextInput struct {
	Label   string
	Model   textinput.Model
	Numeric bool
}

// NewTextInput creates a blurred input. Numeric inputs accept digits and a
// single decimal point.
func NewTextInput(label, placeholder string, numeric bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Label: label, Model: ti, Numeric: numeric}
}

func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

func (t *TextInput) Blur() { t.Model.Blur() }

func (t TextInput) Focused() bool { return t.Model.Focused() }

// Update forwards messages to the inner model, dropping non-numeric runes
// for numeric inputs.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && t.Numeric && kmsg.Text != "" {
		for _, r := range kmsg.Text {
			if (r < '0' || r > '9') && r != '.' {
				return t, nil
			}
			if r == '.' && strings.Contains(t.Model.Value(), ".") {
				return t, nil
			}
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input.
func (t TextInput) View() string {
	label := theme.Hint.Italic(false).Render(t.Label)
	if t.Model.Focused() {
		label = theme.Selected.Render(t.Label)
	}
	return label + "\n" + t.Model.View()
}

func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Decimal parses the value; an empty input is zero.
func (t TextInput) Decimal() (decimal.Decimal, error) {
	if t.Value() == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(t.Value())
}

// Form cycles focus over a fixed set of inputs with tab and shift+tab.
type Form struct {
	Inputs []TextInput
	Focus  int
}

// NewForm focuses the first input.
func NewForm(inputs ...TextInput) (Form, tea.Cmd) {
	f := Form{Inputs: inputs}
	if len(inputs) == 0 {
		return f, nil
	}
	return f, f.Inputs[0].Focus()
}

// Update moves focus on tab, shift+tab, up and down, and forwards every
// other message to the focused input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.Inputs) == 0 {
		return f, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return f, f.move(1)
		case "shift+tab", "up":
			return f, f.move(-1)
		}
	}
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return f, cmd
}

func (f *Form) move(dir int) tea.Cmd {
	f.Inputs[f.Focus].Blur()
	f.Focus = (f.Focus + dir + len(f.Inputs)) % len(f.Inputs)
	return f.Inputs[f.Focus].Focus()
}

// View renders every input separated by a blank line.
func (f Form) View() string {
	parts := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		parts[i] = in.View()
	}
	return strings.Join(parts, "\n\n")
}
