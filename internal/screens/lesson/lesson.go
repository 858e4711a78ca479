// Package lesson is the lesson player screen: paging, the interest slider on
// interactive pages, quizzes with optional coach explanations and the
// completion summary.
package lesson

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/coach"
	"github.com/abhisek/finwise/internal/interest"
	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/player"
	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/router"
	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/store"
	"github.com/abhisek/finwise/internal/ui/components"
	"github.com/abhisek/finwise/internal/ui/layout"
)

// swipeThreshold is the horizontal travel, in cells, that turns a pointer
// gesture into a page swipe.
const swipeThreshold = 6

const (
	defaultSliderWidth = 40
	minSliderWidth     = 20
)

// deferredNotifier captures the completion so the real notifier can run in a
// command instead of on the UI loop.
type deferredNotifier struct {
	completion *player.Completion
}

func (d *deferredNotifier) LessonCompleted(_ context.Context, c player.Completion) error {
	d.completion = &c
	return nil
}

// Screen plays one lesson.
type Screen struct {
	svc      *screen.Services
	lesson   *lessons.Lesson
	player   *player.Player
	deferred *deferredNotifier

	slider     *components.Slider
	params     interest.Params
	comparison interest.Comparison

	choice     components.MultiChoice
	choicePage string
	lastAnswer *player.AnswerResult

	explanations map[string]*coach.Explanation
	explaining   bool

	settleGen int
	baseline  *progress.Achievements
	result    *completedMsg
	saving    bool

	pressed        bool
	pressX, pressY int

	notice string
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Leaver = (*Screen)(nil)

// New creates a lesson screen. A lesson that cannot be played shows an
// error instead.
func New(svc *screen.Services, l *lessons.Lesson) *Screen {
	s := &Screen{
		svc:          svc,
		lesson:       l,
		deferred:     &deferredNotifier{},
		params:       interest.DefaultParams(),
		explanations: make(map[string]*coach.Explanation),
	}
	p, err := player.New(l, s.deferred, svc.Player)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.player = p
	s.slider = components.NewSlider(interest.MinYears, interest.MaxYears, s.params.Years, defaultSliderWidth, s.onYearChange)
	s.comparison = interest.Compare(s.params)
	if svc.UserID() == "" {
		s.notice = "Not signed in: progress from this lesson will not be saved."
	}
	s.preparePage()
	return s
}

func (s *Screen) Init() tea.Cmd {
	if s.player == nil {
		return nil
	}
	return tea.Batch(s.logEvent(store.ActionStart), s.loadBaseline(), s.scheduleSettle())
}

func (s *Screen) Title() string {
	if s.lesson == nil {
		return "Lesson"
	}
	return s.lesson.Title
}

// Player exposes the session for tests.
func (s *Screen) Player() *player.Player { return s.player }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.player == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.player.Phase() == player.Finished {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "N", Description: "Next lesson"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "N/→", Description: "Next"},
		{Key: "P/←", Description: "Back"},
	}
	pg := s.player.Page()
	switch pg.Kind {
	case lessons.KindInteractive:
		hints[0].Key, hints[1].Key = "N", "P"
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Years"})
	case lessons.KindQuiz:
		if s.choice.Locked() {
			hints = append(hints, layout.KeyHint{Key: "?", Description: "Explain"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "A-D", Description: "Answer"})
		}
	}
	if s.player.Completed() {
		hints = append(hints, layout.KeyHint{Key: "F", Description: "Complete lesson"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
}

// Leave records an abandoned session when the lesson is closed before it
// finished.
func (s *Screen) Leave() tea.Cmd {
	if s.player == nil || s.player.Phase() == player.Finished {
		return nil
	}
	return s.logEvent(store.ActionAbandon)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.player == nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.slider.Resize(sliderWidth(msg.Width))
		return s, nil

	case settleMsg:
		if msg.gen == s.settleGen && s.player.Settle() {
			s.errMsg = ""
		}
		return s, nil

	case baselineMsg:
		if msg.Err == nil {
			s.baseline = &msg.Achievements
		}
		return s, nil

	case completedMsg:
		s.saving = false
		s.result = &msg
		if msg.Err != nil {
			s.errMsg = completionError(msg.Err)
		}
		return s, func() tea.Msg { return screen.StatusChangedMsg{} }

	case explainedMsg:
		s.explaining = false
		if msg.Explanation != nil {
			s.explanations[msg.PageID] = msg.Explanation
		}
		return s, nil

	case components.ChoiceMsg:
		return s, s.answer(msg.OptionID)

	case components.SliderFrameMsg:
		cmd, _ := s.slider.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg:
		return s, s.handleMouse(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.player.Phase() == player.Finished {
		switch msg.String() {
		case "enter", "q":
			return router.Pop
		case "n":
			return s.nextLesson()
		}
		return nil
	}

	pg := s.player.Page()
	if pg.Kind == lessons.KindInteractive {
		if cmd, claimed := s.slider.Update(msg); claimed {
			return cmd
		}
	}
	if pg.Kind == lessons.KindQuiz && !s.choice.Locked() {
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if cmd != nil {
			return cmd
		}
	}

	switch msg.String() {
	case "n", "right", "enter", "space":
		return s.next()
	case "p", "left":
		return s.navigate(s.player.Previous())
	case "f":
		return s.finish()
	case "?":
		return s.explain()
	}
	return nil
}

// handleMouse gives the slider first refusal on a gesture. Whatever it does
// not claim may become a swipe when released.
func (s *Screen) handleMouse(msg tea.Msg) tea.Cmd {
	if s.player.Phase() == player.Finished {
		return nil
	}
	if s.player.Page().Kind == lessons.KindInteractive {
		if cmd, claimed := s.slider.Update(msg); claimed {
			if _, ok := msg.(tea.MouseReleaseMsg); ok {
				s.pressed = false
			}
			return cmd
		}
	}

	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		m := msg.Mouse()
		if m.Button == tea.MouseLeft {
			s.pressed, s.pressX, s.pressY = true, m.X, m.Y
		}
	case tea.MouseReleaseMsg:
		if !s.pressed {
			return nil
		}
		s.pressed = false
		m := msg.Mouse()
		dx, dy := m.X-s.pressX, m.Y-s.pressY
		if abs(dx) < swipeThreshold || abs(dx) <= abs(dy) {
			return nil
		}
		if dx < 0 {
			return s.navigate(s.player.SwipeTo(s.player.Index() + 1))
		}
		return s.navigate(s.player.SwipeTo(s.player.Index() - 1))
	}
	return nil
}

func (s *Screen) next() tea.Cmd {
	out, err := s.player.Next(context.Background())
	cmd := s.navigate(out, err)
	if out.Notified {
		return tea.Batch(cmd, s.persistCompletion())
	}
	return cmd
}

func (s *Screen) finish() tea.Cmd {
	out, err := s.player.Finish(context.Background())
	if err != nil {
		return s.navigate(out, err)
	}
	if out.Notified {
		return s.persistCompletion()
	}
	return nil
}

// navigate applies the outcome of a page change.
func (s *Screen) navigate(out player.Outcome, err error) tea.Cmd {
	switch {
	case errors.Is(err, player.ErrCannotProceed):
		s.errMsg = "Answer the question to continue."
		return nil
	case errors.Is(err, player.ErrNotCompleted):
		s.errMsg = "Almost there..."
		return nil
	case errors.Is(err, player.ErrAtFirstPage), errors.Is(err, player.ErrPageOutOfRange):
		return nil
	case err != nil:
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	if !out.Changed {
		return nil
	}
	s.preparePage()
	return s.scheduleSettle()
}

// preparePage resets per-page widgets for the current page.
func (s *Screen) preparePage() {
	pg := s.player.Page()
	s.lastAnswer = nil
	if pg.Kind != lessons.KindQuiz {
		return
	}
	s.choice = components.NewMultiChoice(pg)
	s.choicePage = pg.ID
	if chosen, ok := s.player.Selected(); ok {
		correct := ""
		if c, ok := pg.CorrectOption(); ok {
			correct = c.ID
		}
		s.choice.Lock(chosen, correct)
	}
}

func (s *Screen) answer(optionID string) tea.Cmd {
	pg := s.player.Page()
	res, err := s.player.Answer(optionID)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	s.lastAnswer = &res
	s.choice.Lock(res.OptionID, res.CorrectOptionID)
	s.svc.Metrics.QuizAnswered(res.Correct)

	data := store.QuizAnswerEventData{
		SessionID: s.player.SessionID(),
		UserID:    s.svc.UserID(),
		LessonID:  s.lesson.ID,
		PageID:    pg.ID,
		OptionID:  res.OptionID,
		Correct:   res.Correct,
	}
	events, logger := s.svc.EventRepo(), s.svc.Log()
	record := func() tea.Msg {
		if err := events.AppendQuizAnswer(context.Background(), data); err != nil {
			logger.Warn("record quiz answer", zap.String("lesson", data.LessonID), zap.Error(err))
		}
		return nil
	}
	return tea.Batch(record, s.scheduleSettle())
}

// scheduleSettle arms the completion timer when completion is pending.
func (s *Screen) scheduleSettle() tea.Cmd {
	if !s.player.CompletionPending() {
		return nil
	}
	s.settleGen++
	gen := s.settleGen
	return tea.Tick(s.player.Config().CompletionDelay, func(time.Time) tea.Msg {
		return settleMsg{gen: gen}
	})
}

// persistCompletion runs the real notifier for the captured completion and
// reloads achievements.
func (s *Screen) persistCompletion() tea.Cmd {
	c := s.deferred.completion
	if c == nil {
		return nil
	}
	s.saving = true
	notifier, tracker := s.svc.Notifier, s.svc.Tracker
	return func() tea.Msg {
		ctx := context.Background()
		if notifier != nil {
			if err := notifier.LessonCompleted(ctx, *c); err != nil {
				return completedMsg{Err: err}
			}
		}
		if tracker == nil {
			return completedMsg{}
		}
		ach, err := tracker.Achievements(ctx)
		return completedMsg{Achievements: ach, Err: err}
	}
}

func (s *Screen) loadBaseline() tea.Cmd {
	tracker := s.svc.Tracker
	if tracker == nil || s.svc.UserID() == "" {
		return nil
	}
	return func() tea.Msg {
		ach, err := tracker.Achievements(context.Background())
		return baselineMsg{Achievements: ach, Err: err}
	}
}

func (s *Screen) explain() tea.Cmd {
	pg := s.player.Page()
	if pg.Kind != lessons.KindQuiz || !s.choice.Locked() || s.explaining {
		return nil
	}
	if _, ok := s.explanations[pg.ID]; ok {
		return nil
	}
	in := s.coachInput(pg)
	if !s.svc.Coach.Enabled() {
		s.explanations[pg.ID] = coach.Fallback(in)
		return nil
	}
	s.explaining = true
	svc, pageID := s.svc.Coach, pg.ID
	return func() tea.Msg {
		exp, err := svc.Explain(context.Background(), in)
		if err != nil {
			exp = coach.Fallback(in)
		}
		return explainedMsg{PageID: pageID, Explanation: exp, Err: err}
	}
}

func (s *Screen) coachInput(pg *lessons.Page) coach.Input {
	in := coach.Input{
		LessonTitle: s.lesson.Title,
		PageTitle:   pg.Title,
		Question:    pg.Question,
		Locale:      s.svc.Locale.String(),
	}
	chosen, _ := s.player.Selected()
	for _, o := range pg.Options {
		in.Options = append(in.Options, o.Text)
		if o.ID == chosen {
			in.Chosen = o.Text
			in.WasCorrect = o.Correct
			in.Rationale = o.Rationale
		}
		if o.Correct {
			in.CorrectText = o.Text
		}
	}
	return in
}

// nextLesson replaces this screen with the lesson after it in the catalog.
func (s *Screen) nextLesson() tea.Cmd {
	if s.svc.Catalog == nil {
		return router.Pop
	}
	all := s.svc.Catalog.Lessons(s.svc.Locale)
	for i, l := range all {
		if l.ID == s.lesson.ID && i+1 < len(all) {
			next := New(s.svc, all[i+1])
			return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return router.Pop
}

func (s *Screen) logEvent(action string) tea.Cmd {
	score := s.player.Score()
	data := store.LessonEventData{
		SessionID:  s.player.SessionID(),
		UserID:     s.svc.UserID(),
		LessonID:   s.lesson.ID,
		Difficulty: string(s.lesson.Difficulty),
		Action:     action,
		PageIndex:  s.player.Index(),
		Correct:    score.Correct,
		Answered:   score.Answered,
	}
	events, logger := s.svc.EventRepo(), s.svc.Log()
	return func() tea.Msg {
		if err := events.AppendLessonEvent(context.Background(), data); err != nil {
			logger.Warn("record lesson event",
				zap.String("lesson", data.LessonID),
				zap.String("action", action),
				zap.Error(err),
			)
		}
		return nil
	}
}

func (s *Screen) onYearChange(year int) {
	s.params = s.params.WithYears(year)
	s.comparison = interest.Compare(s.params)
}

func completionError(err error) string {
	switch {
	case errors.Is(err, progress.ErrNotSignedIn):
		return "Not signed in: sign in from Profile to save your progress."
	default:
		var perr *progress.PersistenceError
		if errors.As(err, &perr) {
			return "Your progress could not be saved right now. It will be kept for this session."
		}
		return err.Error()
	}
}

func sliderWidth(termWidth int) int {
	return max(minSliderWidth, min(layout.ContentWidth(termWidth)-4, 60))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
