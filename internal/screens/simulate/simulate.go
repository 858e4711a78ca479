// Package simulate is the savings simulator: a monthly contribution,
// a duration and an expected return, projected as an ordinary annuity.
package simulate

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/shopspring/decimal"

	"github.com/abhisek/finwise/internal/interest"
	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/ui/components"
	"github.com/abhisek/finwise/internal/ui/layout"
	"github.com/abhisek/finwise/internal/ui/theme"
)

const (
	fieldMonthly = iota
	fieldYears
	fieldReturn
)

// Screen is the simulator.
type Screen struct {
	svc    *screen.Services
	form   components.Form
	focus  tea.Cmd
	result *interest.Projection
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(svc *screen.Services) *Screen {
	monthly := components.NewTextInput("Monthly contribution", "500", true, 9)
	monthly.SetValue("500")
	years := components.NewTextInput("Years", "10", true, 2)
	years.SetValue("10")
	ret := components.NewTextInput("Expected annual return (%)", "8", true, 5)
	ret.SetValue("8")

	form, focus := components.NewForm(monthly, years, ret)
	s := &Screen{svc: svc, form: form, focus: focus}
	s.recompute()
	return s
}

func (s *Screen) Init() tea.Cmd { return s.focus }

func (s *Screen) Title() string { return "Savings Simulator" }

func (s *Screen) Capturing() bool { return true }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.recompute()
	}
	return s, cmd
}

// Input returns the parsed form, or an error describing the bad field.
func (s *Screen) Input() (interest.ProjectionInput, error) {
	monthly, err := s.form.Inputs[fieldMonthly].Decimal()
	if err != nil {
		return interest.ProjectionInput{}, fmt.Errorf("monthly contribution: %w", err)
	}
	years := 0
	if v := s.form.Inputs[fieldYears].Value(); v != "" {
		years, err = strconv.Atoi(v)
		if err != nil {
			return interest.ProjectionInput{}, fmt.Errorf("years must be a whole number")
		}
	}
	pct, err := s.form.Inputs[fieldReturn].Decimal()
	if err != nil {
		return interest.ProjectionInput{}, fmt.Errorf("return: %w", err)
	}
	in := interest.ProjectionInput{MonthlyContribution: monthly, Years: years, AnnualReturnPct: pct}
	return in, in.Validate()
}

func (s *Screen) recompute() {
	in, err := s.Input()
	if err != nil {
		s.errMsg = err.Error()
		s.result = nil
		return
	}
	s.errMsg = ""
	p := interest.Project(in)
	s.result = &p
}

func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Savings Simulator"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("See what saving a little every month adds up to."))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	case s.result != nil:
		b.WriteString(s.renderResult())
	}
	return layout.Center(theme.Card.Width(cw+6).Render(b.String()), width, height)
}

func (s *Screen) renderResult() string {
	tag, cur := s.svc.Locale, s.svc.Currency
	row := func(label string, amount int64) string {
		return theme.Body.Render(fmt.Sprintf("%-16s", label)) + theme.Money.Render(interest.FormatCurrency(amount, tag, cur))
	}
	r := s.result
	lines := []string{
		row("You put in", r.Contributions),
		row("Growth", r.Growth),
		row("Total", r.Total),
	}
	if r.Contributions > 0 && r.Growth > 0 {
		share := decimal.NewFromInt(r.Growth).Div(decimal.NewFromInt(r.Total)).Shift(2).Round(0)
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("%s%% of the total is growth.", share)))
	}
	return strings.Join(lines, "\n")
}
