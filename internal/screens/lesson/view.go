package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/finwise/internal/interest"
	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/player"
	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/ui/components"
	"github.com/abhisek/finwise/internal/ui/layout"
	"github.com/abhisek/finwise/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.player == nil {
		return layout.Center(theme.ErrorText.Render("This lesson cannot be played: "+s.errMsg), width, height)
	}
	if s.player.Phase() == player.Finished {
		return layout.Center(s.renderSummary(layout.ContentWidth(width)), width, height)
	}

	cw := layout.ContentWidth(width)
	var b strings.Builder

	b.WriteString(s.renderProgress(cw))
	b.WriteString("\n\n")

	pg := s.player.Page()
	if pg.Title != "" {
		b.WriteString(theme.Title.Width(cw).Render(pg.Title))
		b.WriteString("\n\n")
	}

	switch pg.Kind {
	case lessons.KindInteractive:
		b.WriteString(s.renderInteractive(pg, cw))
	case lessons.KindQuiz:
		b.WriteString(s.renderQuiz(pg, cw))
	default:
		b.WriteString(renderStory(pg, cw))
	}

	if status := s.renderStatus(cw); status != "" {
		b.WriteString("\n\n")
		b.WriteString(status)
	}

	frame := layout.Center(theme.Card.Width(cw+6).Render(b.String()), width, height)
	if pg.Kind == lessons.KindInteractive {
		s.slider.Locate(frame)
	}
	return frame
}

func (s *Screen) renderProgress(cw int) string {
	diff := string(s.lesson.Difficulty)
	style, ok := theme.Difficulty[diff]
	if !ok {
		style = theme.Hint
	}
	left := style.Render(diff) + theme.Hint.Render(fmt.Sprintf("  page %d of %d", s.player.Index()+1, s.lesson.PageCount()))
	dots := components.PageDots(s.player.Index(), s.lesson.PageCount())
	gap := max(1, cw-lipgloss.Width(left)-lipgloss.Width(dots))
	return left + strings.Repeat(" ", gap) + dots
}

func renderStory(pg *lessons.Page, cw int) string {
	var b strings.Builder
	if pg.Graphic != "" {
		b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(pg.Graphic))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Body.Width(cw).Render(strings.TrimSpace(pg.Content)))
	return b.String()
}

func (s *Screen) renderInteractive(pg *lessons.Page, cw int) string {
	var b strings.Builder
	if content := strings.TrimSpace(pg.Content); content != "" {
		b.WriteString(theme.Body.Width(cw).Render(content))
		b.WriteString("\n\n")
	}

	cur := s.svc.Currency
	tag := s.svc.Locale
	c := s.comparison
	years := "years"
	if c.Years == 1 {
		years = "year"
	}
	b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf(
		"%s at %s%% for %d %s",
		interest.FormatCurrency(s.params.Principal.IntPart(), tag, cur),
		s.params.AnnualRate.Shift(2).String(),
		c.Years, years,
	)))
	b.WriteString("\n\n")
	b.WriteString(s.slider.View())
	b.WriteString("\n\n")

	row := func(label string, amount int64) string {
		return theme.Body.Render(fmt.Sprintf("%-18s", label)) + theme.Money.Render(interest.FormatCurrency(amount, tag, cur))
	}
	b.WriteString(row("Simple interest", c.Simple))
	b.WriteString("\n")
	b.WriteString(row("Compound interest", c.Compound))
	b.WriteString("\n")

	diff := "+" + interest.FormatCurrency(c.Difference, tag, cur)
	diffStyle := theme.Correct
	if s.slider.State().Pulsing {
		diffStyle = diffStyle.Foreground(theme.Gold).Underline(true)
	}
	b.WriteString(theme.Body.Render(fmt.Sprintf("%-18s", "Difference")) + diffStyle.Render(diff))
	return b.String()
}

func (s *Screen) renderQuiz(pg *lessons.Page, cw int) string {
	var b strings.Builder
	if content := strings.TrimSpace(pg.Content); content != "" {
		b.WriteString(theme.Body.Width(cw).Render(content))
		b.WriteString("\n\n")
	}
	b.WriteString(s.choice.View())

	if !s.choice.Locked() {
		return b.String()
	}

	b.WriteString("\n")
	chosen, _ := s.player.Selected()
	if opt, ok := pg.Option(chosen); ok {
		verdict := theme.Incorrect.Render("Not quite.")
		if opt.Correct {
			verdict = theme.Correct.Render("Correct!")
		}
		b.WriteString(verdict)
		if opt.Rationale != "" {
			b.WriteString(" " + theme.Body.Width(cw-12).Render(opt.Rationale))
		}
	}

	switch exp := s.explanations[pg.ID]; {
	case s.explaining:
		b.WriteString("\n\n" + theme.Hint.Render("Asking the coach..."))
	case exp != nil:
		b.WriteString("\n\n" + renderExplanation(exp.Summary, exp.Tip, exp.Example, cw))
	}
	return b.String()
}

func renderExplanation(summary, tip, example string, cw int) string {
	lines := []string{theme.Body.Width(cw).Render(summary)}
	if tip != "" {
		lines = append(lines, theme.Selected.Render("Tip: ")+theme.Body.Render(tip))
	}
	if example != "" {
		lines = append(lines, theme.Hint.Width(cw).Render(example))
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderStatus(cw int) string {
	var lines []string
	if s.notice != "" {
		lines = append(lines, theme.Hint.Width(cw).Render(s.notice))
	}
	if s.errMsg != "" {
		lines = append(lines, theme.ErrorText.Render(s.errMsg))
	}
	if s.player.Completed() {
		lines = append(lines, components.NewButton("Complete Lesson", true, nil).View())
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderSummary(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Lesson complete!"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render(s.lesson.Title))
	b.WriteString("\n\n")

	score := s.player.Score()
	if score.Answered > 0 {
		b.WriteString(theme.Body.Render(fmt.Sprintf("Quiz score: %d of %d correct", score.Correct, score.Answered)))
		b.WriteString("\n\n")
	}

	switch {
	case s.saving:
		b.WriteString(theme.Hint.Render("Saving your progress..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Width(cw).Render(s.errMsg))
	case s.result != nil:
		b.WriteString(s.renderAchievements(s.result.Achievements))
	}
	return theme.Card.Width(cw + 6).Render(b.String())
}

func (s *Screen) renderAchievements(a progress.Achievements) string {
	var b strings.Builder
	b.WriteString(theme.Body.Render(fmt.Sprintf("Lessons completed: %d", a.LessonsCompleted)))
	for _, id := range progress.AllAchievements() {
		if !a.Unlocked(id) {
			continue
		}
		line := id.Icon() + " " + id.DisplayName()
		if s.baseline != nil && !s.baseline.Unlocked(id) {
			b.WriteString("\n" + theme.Money.Render(line+"  unlocked!"))
			continue
		}
		b.WriteString("\n" + theme.Hint.Italic(false).Render(line))
	}
	if a.AllUnlocked() && !a.RewardCollected {
		b.WriteString("\n\n" + theme.Money.Foreground(theme.Gold).Render("Your reward is ready in Achievements."))
	}
	return b.String()
}
