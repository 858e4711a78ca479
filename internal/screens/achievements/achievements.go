// Package achievements shows the three achievements and lets the user
// collect the reward once all of them are unlocked.
package achievements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/ui/components"
	"github.com/abhisek/finwise/internal/ui/layout"
	"github.com/abhisek/finwise/internal/ui/theme"
)

type loadedMsg struct {
	Achievements progress.Achievements
	Err          error
}

type collectedMsg struct {
	Status progress.RewardStatus
	Err    error
}

// Screen lists achievements.
type Screen struct {
	svc     *screen.Services
	ach     *progress.Achievements
	status  string
	errMsg  string
	loading bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(svc *screen.Services) *Screen {
	return &Screen{svc: svc}
}

func (s *Screen) Init() tea.Cmd {
	tracker := s.svc.Tracker
	if tracker == nil {
		return nil
	}
	s.loading = true
	return func() tea.Msg {
		ach, err := tracker.Achievements(context.Background())
		return loadedMsg{Achievements: ach, Err: err}
	}
}

func (s *Screen) Title() string { return "Achievements" }

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	if s.canCollect() {
		hints = append([]layout.KeyHint{{Key: "Enter", Description: "Collect reward"}}, hints...)
	}
	return hints
}

func (s *Screen) canCollect() bool {
	return s.ach != nil && s.ach.AllUnlocked() && !s.ach.RewardCollected
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		s.ach = &msg.Achievements

	case collectedMsg:
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		switch msg.Status {
		case progress.RewardCollected:
			s.status = "Reward collected. Well done!"
			s.ach.RewardCollected = true
		case progress.RewardAlreadyCollected:
			s.status = "You already collected this reward."
			s.ach.RewardCollected = true
		default:
			s.status = "Unlock every achievement first."
		}
		return s, func() tea.Msg { return screen.StatusChangedMsg{} }

	case tea.KeyPressMsg:
		if msg.String() == "enter" && s.canCollect() {
			tracker := s.svc.Tracker
			return s, func() tea.Msg {
				st, err := tracker.CollectReward(context.Background())
				return collectedMsg{Status: st, Err: err}
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Achievements"))
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Width(cw).Render(s.errMsg))
		return layout.Center(b.String(), width, height)
	case s.loading || s.ach == nil:
		b.WriteString(theme.Hint.Render("Loading..."))
		return layout.Center(b.String(), width, height)
	}

	a := *s.ach
	for _, id := range progress.AllAchievements() {
		icon, name := id.Icon(), id.DisplayName()
		style := theme.Disabled
		mark := "🔒"
		if a.Unlocked(id) {
			style, mark = theme.Selected, "✓"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", mark, icon, style.Render(name)))
		b.WriteString("      " + theme.Hint.Render(id.Description()) + "\n")
	}

	b.WriteString("\n")
	seeker := min(1, float64(a.LessonsCompleted)/float64(progress.KnowledgeSeekerLessons))
	b.WriteString(components.NewProgressBar("Lessons", seeker, false, cw).View())
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d/%d", a.LessonsCompleted, progress.KnowledgeSeekerLessons)))
	b.WriteString("\n\n")

	switch {
	case a.RewardCollected:
		b.WriteString(theme.Money.Foreground(theme.Gold).Render("🏆 Reward collected"))
	case a.AllUnlocked():
		b.WriteString(components.NewButton("Collect reward", true, nil).View())
	default:
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d of %d unlocked. The reward opens when all are done.",
			a.UnlockedCount(), len(progress.AllAchievements()))))
	}
	if s.status != "" {
		b.WriteString("\n\n" + theme.Body.Render(s.status))
	}
	return layout.Center(theme.Card.Width(cw+6).Render(b.String()), width, height)
}

func describe(err error) string {
	if errors.Is(err, progress.ErrNotSignedIn) {
		return "Not signed in. Sign in from Profile to see your achievements."
	}
	return "Could not load your progress: " + err.Error()
}
