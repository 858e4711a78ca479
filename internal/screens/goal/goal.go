// Package goal lets the user set a savings goal and shows the mock savings
// account that goes with it.
package goal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/shopspring/decimal"

	"github.com/abhisek/finwise/internal/goals"
	"github.com/abhisek/finwise/internal/interest"
	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/ui/components"
	"github.com/abhisek/finwise/internal/ui/layout"
	"github.com/abhisek/finwise/internal/ui/theme"
)

// PlanReturnPct is the annual return assumed when planning a goal.
var PlanReturnPct = decimal.NewFromInt(8)

type loadedMsg struct {
	Goal *goals.Goal
	Err  error
}

type savedMsg struct {
	Goal goals.Goal
	Err  error
}

// Screen edits the goal.
type Screen struct {
	svc    *screen.Services
	form   components.Form
	focus  tea.Cmd
	goal   *goals.Goal
	errMsg string
	status string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(svc *screen.Services) *Screen {
	form, focus := components.NewForm(
		components.NewTextInput("What are you saving for?", "A new bicycle", false, 40),
		components.NewTextInput("Target amount", "5000", true, 9),
		components.NewTextInput("Monthly saving", "250", true, 9),
	)
	return &Screen{svc: svc, form: form, focus: focus}
}

func (s *Screen) Init() tea.Cmd {
	tracker := s.svc.Tracker
	if tracker == nil || s.svc.UserID() == "" {
		s.errMsg = "Not signed in. Sign in from Profile to save a goal."
		return s.focus
	}
	return tea.Batch(s.focus, func() tea.Msg {
		g, err := tracker.Goal(context.Background())
		return loadedMsg{Goal: g, Err: err}
	})
}

func (s *Screen) Title() string { return "My Goal" }

func (s *Screen) Capturing() bool { return true }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		if msg.Goal != nil {
			s.setGoal(*msg.Goal)
		}
		return s, nil

	case savedMsg:
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		s.errMsg = ""
		s.status = "Goal saved."
		s.setGoal(msg.Goal)
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, s.save()
		}
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *Screen) setGoal(g goals.Goal) {
	s.goal = &g
	s.form.Inputs[0].SetValue(g.Name)
	s.form.Inputs[1].SetValue(strconv.FormatInt(g.Target, 10))
	s.form.Inputs[2].SetValue(strconv.FormatInt(g.Monthly, 10))
}

// Goal parses the form.
func (s *Screen) Goal() (goals.Goal, error) {
	target, err := s.form.Inputs[1].Decimal()
	if err != nil {
		return goals.Goal{}, fmt.Errorf("target: %w", err)
	}
	monthly, err := s.form.Inputs[2].Decimal()
	if err != nil {
		return goals.Goal{}, fmt.Errorf("monthly saving: %w", err)
	}
	g := goals.Goal{
		Name:    s.form.Inputs[0].Value(),
		Target:  target.Round(0).IntPart(),
		Monthly: monthly.Round(0).IntPart(),
	}
	return g, g.Validate()
}

func (s *Screen) save() tea.Cmd {
	g, err := s.Goal()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	tracker := s.svc.Tracker
	if tracker == nil {
		return nil
	}
	return func() tea.Msg {
		return savedMsg{Goal: g, Err: tracker.SetGoal(context.Background(), g)}
	}
}

func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("My Savings Goal"))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n\n")
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Width(cw).Render(s.errMsg))
		b.WriteString("\n\n")
	} else if s.status != "" {
		b.WriteString(theme.Correct.Render(s.status))
		b.WriteString("\n\n")
	}
	if s.goal != nil {
		b.WriteString(s.renderAccount(cw))
	}
	return layout.Center(b.String(), width, height)
}

func (s *Screen) renderAccount(cw int) string {
	acct := goals.OpenAccount(s.svc.UserID(), *s.goal)
	tag, cur := s.svc.Locale, s.svc.Currency

	lines := []string{
		theme.Selected.Render("finwise Savings") + theme.Hint.Render("   "+acct.Number),
		theme.Body.Render(strings.ToUpper(acct.Holder)),
		"",
		theme.Body.Render(acct.Goal.Name),
		theme.Money.Render(interest.FormatCurrency(acct.Balance, tag, cur)) +
			theme.Hint.Render(" of "+interest.FormatCurrency(acct.Goal.Target, tag, cur)),
		components.NewProgressBar("", acct.Progress(), true, cw-12).View(),
	}

	months, ok := goals.MonthsToTarget(acct.Goal, PlanReturnPct)
	switch {
	case !ok:
		lines = append(lines, theme.Hint.Render("Save a bit more each month to reach this goal."))
	default:
		lines = append(lines, theme.Hint.Render(fmt.Sprintf(
			"At %s a month and %s%% a year you get there in %s.",
			interest.FormatCurrency(acct.Goal.Monthly, tag, cur), PlanReturnPct, formatMonths(months))))
	}
	return theme.AccountCard.Width(cw).Render(strings.Join(lines, "\n"))
}

func formatMonths(n int) string {
	years, months := n/12, n%12
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case years == 0:
		return plural(months, "month")
	case months == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " " + plural(months, "month")
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, progress.ErrNotSignedIn):
		return "Not signed in. Sign in from Profile to save a goal."
	case errors.Is(err, goals.ErrInvalidGoal):
		return err.Error()
	}
	return "Could not save your goal: " + err.Error()
}
