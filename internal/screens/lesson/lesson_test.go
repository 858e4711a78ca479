package lesson

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/abhisek/finwise/internal/coach"
	"github.com/abhisek/finwise/internal/identity"
	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/llm"
	"github.com/abhisek/finwise/internal/player"
	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/router"
	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/store"
	"github.com/abhisek/finwise/internal/ui/components"
)

type captureRepo struct {
	store.NopEventRepo
	mu      sync.Mutex
	lessons []store.LessonEventData
	answers []store.QuizAnswerEventData
}

func (r *captureRepo) AppendLessonEvent(_ context.Context, d store.LessonEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lessons = append(r.lessons, d)
	return nil
}

func (r *captureRepo) AppendQuizAnswer(_ context.Context, d store.QuizAnswerEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, d)
	return nil
}

func (r *captureRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.lessons {
		out = append(out, e.Action)
	}
	return out
}

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// drain runs cmd and every command it batches, returning the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed applies msg and then every message its commands produce, except
// navigation messages which are returned.
func feed(t *testing.T, s *Screen, msg tea.Msg) []tea.Msg {
	t.Helper()
	_, cmd := s.Update(msg)
	var nav []tea.Msg
	for _, m := range drain(cmd) {
		switch m.(type) {
		case router.PopScreenMsg, router.ReplaceScreenMsg, screen.StatusChangedMsg:
			nav = append(nav, m)
		default:
			nav = append(nav, feed(t, s, m)...)
		}
	}
	return nav
}

func testLesson() *lessons.Lesson {
	return &lessons.Lesson{
		ID:         "compound-interest",
		Title:      "The Magic of Compound Interest",
		Difficulty: lessons.Intermediate,
		Pages: []lessons.Page{
			{ID: "story", Kind: lessons.KindStory, Title: "Meet Thandi", Content: "Thandi saves R10,000."},
			{ID: "slider", Kind: lessons.KindInteractive, Title: "Watch it grow"},
			{ID: "quiz", Kind: lessons.KindQuiz, Question: "Which grows faster?", Options: []lessons.Option{
				{ID: "a", Text: "Simple interest", Rationale: "Simple interest only grows on the principal."},
				{ID: "b", Text: "Compound interest", Correct: true, Rationale: "Interest earns interest."},
			}},
		},
	}
}

type fixture struct {
	svc     *screen.Services
	events  *captureRepo
	tracker *progress.Tracker
	users   *identity.Session
}

func newFixture(user string) fixture {
	users := identity.NewSession(user)
	tracker := progress.NewTracker(store.NewMemoryProgress(), users, nil, nil)
	events := &captureRepo{}
	return fixture{
		svc: &screen.Services{
			Locale:   language.English,
			Currency: "R",
			Users:    users,
			Tracker:  tracker,
			Events:   events,
			Notifier: tracker.Notifier(),
			Player:   player.Config{CompletionDelay: time.Millisecond},
		},
		events:  events,
		tracker: tracker,
		users:   users,
	}
}

func startScreen(t *testing.T, f fixture) *Screen {
	t.Helper()
	s := New(f.svc, testLesson())
	require.NotNil(t, s.Player())
	for _, m := range drain(s.Init()) {
		feed(t, s, m)
	}
	return s
}

func TestLessonPlaysThroughAndPersistsOnce(t *testing.T) {
	f := newFixture("thandi")
	s := startScreen(t, f)

	feed(t, s, keyPress("n"))
	assert.Equal(t, 1, s.Player().Index())

	feed(t, s, keyPress("n"))
	assert.Equal(t, 2, s.Player().Index())

	feed(t, s, keyPress("n"))
	assert.Equal(t, 2, s.Player().Index(), "unanswered quiz must block")
	assert.Contains(t, s.errMsg, "Answer the question")

	feed(t, s, keyPress("b"))
	require.True(t, s.Player().Completed(), "settle should complete the lesson")
	require.Len(t, f.events.answers, 1)
	assert.True(t, f.events.answers[0].Correct)

	nav := feed(t, s, keyPress("enter"))
	assert.Equal(t, player.Finished, s.Player().Phase())
	assert.Contains(t, nav, tea.Msg(screen.StatusChangedMsg{}))
	require.NotNil(t, s.result)
	require.NoError(t, s.result.Err)
	assert.True(t, s.result.Achievements.FirstLesson)
	assert.True(t, s.result.Achievements.QuizMaster)

	// The finish button after Next does not persist again.
	_, cmd := s.Update(keyPress("f"))
	assert.Nil(t, cmd)

	rec, err := f.tracker.Record(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"compound-interest"}, rec.LessonsCompleted)

	assert.Nil(t, s.Leave(), "finished lessons are not abandoned")
	assert.Contains(t, s.View(100, 30), "Lesson complete!")

	nav = feed(t, s, keyPress("enter"))
	assert.Equal(t, []tea.Msg{router.PopScreenMsg{}}, nav)
}

func TestLessonSliderOnInteractivePage(t *testing.T) {
	s := startScreen(t, newFixture("thandi"))
	feed(t, s, keyPress("n"))

	assert.Equal(t, 1, s.comparison.Years)
	_, cmd := s.Update(keyPress("right"))
	assert.NotNil(t, cmd, "slider should animate")
	assert.Equal(t, 1, s.Player().Index(), "arrow keys move the slider, not the page")
	assert.Equal(t, 2, s.comparison.Years)
	assert.Equal(t, int64(11664), s.comparison.Compound)

	view := s.View(100, 40)
	assert.Contains(t, view, "R11,664")
	assert.Contains(t, view, "R11,600")
}

func TestLessonSwipe(t *testing.T) {
	s := startScreen(t, newFixture("thandi"))

	feed(t, s, tea.MouseClickMsg{X: 40, Y: 10, Button: tea.MouseLeft})
	feed(t, s, tea.MouseReleaseMsg{X: 38, Y: 22, Button: tea.MouseLeft})
	assert.Equal(t, 0, s.Player().Index(), "vertical gestures are not swipes")

	feed(t, s, tea.MouseClickMsg{X: 40, Y: 10, Button: tea.MouseLeft})
	feed(t, s, tea.MouseReleaseMsg{X: 20, Y: 11, Button: tea.MouseLeft})
	assert.Equal(t, 1, s.Player().Index())

	// On the interactive page a drag that starts on the thumb moves it.
	s.View(100, 40)
	tx, ty, ok := s.slider.ThumbCell()
	require.True(t, ok, "slider should be placed by View")
	feed(t, s, tea.MouseClickMsg{X: tx, Y: ty, Button: tea.MouseLeft})
	feed(t, s, tea.MouseMotionMsg{X: tx + 20, Y: ty, Button: tea.MouseLeft})
	feed(t, s, tea.MouseReleaseMsg{X: tx + 20, Y: ty, Button: tea.MouseLeft})
	assert.Equal(t, 1, s.Player().Index())
	assert.Greater(t, s.comparison.Years, 1)

	feed(t, s, tea.MouseClickMsg{X: tx, Y: ty, Button: tea.MouseLeft})
	feed(t, s, tea.MouseReleaseMsg{X: tx, Y: ty, Button: tea.MouseLeft})
	feed(t, s, keyPress("p"))
	assert.Equal(t, 0, s.Player().Index())
}

func TestLessonSwipeAwayFromSliderTurnsPage(t *testing.T) {
	s := startScreen(t, newFixture("thandi"))
	feed(t, s, keyPress("n"))
	require.Equal(t, 1, s.Player().Index())

	s.View(100, 40)
	tx, ty, ok := s.slider.ThumbCell()
	require.True(t, ok)

	// Same row, far from the thumb.
	feed(t, s, tea.MouseClickMsg{X: tx + 30, Y: ty, Button: tea.MouseLeft})
	feed(t, s, tea.MouseMotionMsg{X: tx + 10, Y: ty, Button: tea.MouseLeft})
	feed(t, s, tea.MouseReleaseMsg{X: tx + 10, Y: ty, Button: tea.MouseLeft})
	assert.Equal(t, 2, s.Player().Index())
	assert.Equal(t, 1, s.comparison.Years, "the slider must not move")

	feed(t, s, keyPress("p"))
	s.View(100, 40)

	// Above the track, swiping back.
	feed(t, s, tea.MouseClickMsg{X: tx, Y: ty - 3, Button: tea.MouseLeft})
	feed(t, s, tea.MouseReleaseMsg{X: tx + 20, Y: ty - 3, Button: tea.MouseLeft})
	assert.Equal(t, 0, s.Player().Index())
}

func TestLessonAbandonAndStartEvents(t *testing.T) {
	f := newFixture("thandi")
	s := startScreen(t, f)
	feed(t, s, keyPress("n"))

	drain(s.Leave())

	assert.Equal(t, []string{store.ActionStart, store.ActionAbandon}, f.events.actions())
	assert.Equal(t, 1, f.events.lessons[1].PageIndex)
	assert.Equal(t, "thandi", f.events.lessons[1].UserID)
}

func TestLessonNotSignedIn(t *testing.T) {
	s := startScreen(t, newFixture(""))
	assert.Contains(t, s.View(100, 40), "Not signed in")

	feed(t, s, keyPress("n"))
	feed(t, s, keyPress("n"))
	feed(t, s, keyPress("b"))
	feed(t, s, keyPress("f"))

	require.NotNil(t, s.result)
	assert.ErrorIs(t, s.result.Err, progress.ErrNotSignedIn)
	assert.Contains(t, s.errMsg, "Not signed in")
}

func TestLessonExplainFallsBackWithoutCoach(t *testing.T) {
	s := startScreen(t, newFixture("thandi"))
	feed(t, s, keyPress("n"))
	feed(t, s, keyPress("n"))
	feed(t, s, keyPress("a"))
	feed(t, s, keyPress("?"))

	exp := s.explanations["quiz"]
	require.NotNil(t, exp)
	assert.Equal(t, "Simple interest only grows on the principal.", exp.Summary)
}

func TestLessonExplainWithCoach(t *testing.T) {
	f := newFixture("thandi")
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(`{
		"summary": "Compound interest grows on past interest too.",
		"tip": "Start early.",
		"example": "R10,000 at 8% doubles in about nine years."
	}`)})
	f.svc.Coach = coach.NewService(mock, coach.DefaultConfig(), nil)

	s := startScreen(t, f)
	feed(t, s, keyPress("n"))
	feed(t, s, keyPress("n"))
	feed(t, s, components.ChoiceMsg{OptionID: "a"})
	feed(t, s, keyPress("?"))

	require.Len(t, mock.Calls(), 1)
	require.NotNil(t, s.explanations["quiz"])
	assert.True(t, strings.HasPrefix(s.explanations["quiz"].Summary, "Compound interest"))
	assert.False(t, s.explaining)
}

func TestLessonRevisitKeepsAnswerLocked(t *testing.T) {
	s := startScreen(t, newFixture("thandi"))
	feed(t, s, keyPress("n"))
	feed(t, s, keyPress("n"))
	feed(t, s, keyPress("a"))
	feed(t, s, keyPress("p"))
	feed(t, s, keyPress("n"))

	assert.True(t, s.choice.Locked())
	sel, ok := s.Player().Selected()
	assert.True(t, ok)
	assert.Equal(t, "a", sel)
}

func TestLessonEmptyShowsError(t *testing.T) {
	s := New(newFixture("thandi").svc, &lessons.Lesson{ID: "empty"})
	assert.Nil(t, s.Player())
	assert.Nil(t, s.Init())
	assert.Contains(t, s.View(100, 30), "cannot be played")
}
