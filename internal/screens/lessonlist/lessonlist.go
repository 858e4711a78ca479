// Package lessonlist shows the catalog for the active locale with the
// user's completion marks.
package lessonlist

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/router"
	"github.com/abhisek/finwise/internal/screen"
	lessonscreen "github.com/abhisek/finwise/internal/screens/lesson"
	"github.com/abhisek/finwise/internal/ui/layout"
	"github.com/abhisek/finwise/internal/ui/theme"
)

type recordLoadedMsg struct {
	done map[string]bool
}

// Screen lists lessons.
type Screen struct {
	svc     *screen.Services
	lessons []*lessons.Lesson
	cursor  int
	done    map[string]bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(svc *screen.Services) *Screen {
	s := &Screen{svc: svc, done: map[string]bool{}}
	if svc.Catalog != nil {
		s.lessons = svc.Catalog.Lessons(svc.Locale)
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.reload()
}

// reload fetches completion marks. Errors leave the list unmarked.
func (s *Screen) reload() tea.Cmd {
	tracker := s.svc.Tracker
	if tracker == nil || s.svc.UserID() == "" {
		return nil
	}
	return func() tea.Msg {
		rec, err := tracker.Record(context.Background())
		if err != nil {
			return nil
		}
		done := make(map[string]bool, len(rec.LessonsCompleted))
		for _, id := range rec.LessonsCompleted {
			done[id] = true
		}
		return recordLoadedMsg{done: done}
	}
}

func (s *Screen) Title() string { return "Lessons" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordLoadedMsg:
		s.done = msg.done
	case screen.StatusChangedMsg:
		return s, s.reload()
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.cursor = max(0, s.cursor-1)
		case "down", "j":
			s.cursor = min(len(s.lessons)-1, s.cursor+1)
		case "enter":
			if s.cursor < len(s.lessons) {
				return s, router.Push(lessonscreen.New(s.svc, s.lessons[s.cursor]))
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	if len(s.lessons) == 0 {
		return layout.Center(theme.Hint.Render("No lessons available for this language."), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Lessons"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf("%d of %d completed", s.completed(), len(s.lessons))))
	b.WriteString("\n\n")

	for i, l := range s.lessons {
		mark := "○"
		if s.done[l.ID] {
			mark = theme.Correct.Render("✓")
		}
		title := theme.Unselected.Render(l.Title)
		prefix := "  "
		if i == s.cursor {
			title = theme.Selected.Render(l.Title)
			prefix = "▸ "
		}
		diff := string(l.Difficulty)
		style, ok := theme.Difficulty[diff]
		if !ok {
			style = theme.Hint
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", prefix, mark, title))
		meta := style.Render(diff)
		if l.Duration != "" {
			meta += theme.Hint.Render("  " + l.Duration)
		}
		b.WriteString("      " + meta + "\n")
		if i == s.cursor && l.Description != "" {
			b.WriteString("      " + theme.Hint.Width(cw-6).Render(l.Description) + "\n")
		}
	}
	return layout.Center(b.String(), width, height)
}

func (s *Screen) completed() int {
	n := 0
	for _, l := range s.lessons {
		if s.done[l.ID] {
			n++
		}
	}
	return n
}
