// Package home is the main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/router"
	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/screens/achievements"
	"github.com/abhisek/finwise/internal/screens/goal"
	"github.com/abhisek/finwise/internal/screens/lessonlist"
	"github.com/abhisek/finwise/internal/screens/profile"
	"github.com/abhisek/finwise/internal/screens/simulate"
	"github.com/abhisek/finwise/internal/ui/components"
	"github.com/abhisek/finwise/internal/ui/layout"
	"github.com/abhisek/finwise/internal/ui/theme"
)

const tagline = "Money skills, one lesson at a time."

type statsMsg struct {
	Achievements progress.Achievements
	Err          error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc   *screen.Services
	menu  components.Menu
	stats *progress.Achievements
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *screen.Services) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd { return router.Push(build()) }
	}
	items := []components.MenuItem{
		{Label: "Lessons", Hint: "Learn with stories, sliders and quizzes",
			Action: push(func() screen.Screen { return lessonlist.New(svc) })},
		{Label: "Savings Simulator", Hint: "Project a monthly saving habit",
			Action: push(func() screen.Screen { return simulate.New(svc) })},
		{Label: "Achievements", Hint: "Unlock all three to earn the reward",
			Action: push(func() screen.Screen { return achievements.New(svc) })},
		{Label: "My Goal", Hint: "Set a goal and open your savings account",
			Action: push(func() screen.Screen { return goal.New(svc) })},
		{Label: "Profile", Hint: "Sign in or out",
			Action: push(func() screen.Screen { return profile.New(svc) })},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{svc: svc, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	tracker := h.svc.Tracker
	if tracker == nil || h.svc.UserID() == "" {
		h.stats = nil
		return nil
	}
	return func() tea.Msg {
		ach, err := tracker.Achievements(context.Background())
		return statsMsg{Achievements: ach, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		if msg.Err != nil {
			h.svc.Log().Sugar().Warnw("load home stats", "error", msg.Err)
			return h, nil
		}
		h.stats = &msg.Achievements
		return h, nil
	case screen.StatusChangedMsg:
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	var sections []string

	sections = append(sections,
		theme.Title.Width(cw).Render("f i n w i s e"),
		theme.Subtitle.Width(cw).Render(tagline),
	)

	switch {
	case h.svc.UserID() == "":
		sections = append(sections, theme.Hint.Width(cw).Align(lipgloss.Center).Render("Not signed in. Choose Profile to save your progress."))
	case h.stats != nil:
		a := h.stats
		sections = append(sections, theme.Body.Width(cw).Align(lipgloss.Center).Render(fmt.Sprintf(
			"Hi %s!  %d lessons done  ·  %d/%d achievements",
			h.svc.UserID(), a.LessonsCompleted, a.UnlockedCount(), len(progress.AllAchievements()),
		)))
	}

	sections = append(sections, theme.Card.Width(cw).Render(h.menu.View()))
	if item, ok := h.menu.Current(); ok && item.Hint != "" {
		sections = append(sections, theme.Hint.Width(cw).Align(lipgloss.Center).Render(item.Hint))
	}

	return layout.Center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
