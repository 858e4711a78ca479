// Package player drives one lesson session: paging through the lesson,
// locking quiz answers, detecting completion and notifying the progress
// tracker exactly once.
//
// Player is driven from one goroutine. The exception is Finish, which may
// race with itself (e.g. a button press and a timer) and still notifies once.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/finwise/internal/lessons"
)

var (
	ErrNoLesson        = errors.New("no lesson")
	ErrEmptyLesson     = errors.New("lesson has no pages")
	ErrNotQuizPage     = errors.New("current page is not a quiz")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrUnknownOption   = errors.New("unknown option")
	ErrCannotProceed   = errors.New("answer the question to continue")
	ErrNotCompleted    = errors.New("lesson not completed yet")
	ErrAtFirstPage     = errors.New("already at first page")
	ErrPageOutOfRange  = errors.New("page index out of range")
)

// Config tunes a session.
type Config struct {
	// CompletionDelay is how long the caller waits after the last page is
	// reached before calling Settle.
	CompletionDelay time.Duration

	// ForgetAnswersOnPageChange clears every quiz answer whenever the page
	// changes, so revisited quizzes must be answered again.
	ForgetAnswersOnPageChange bool
}

// DefaultConfig returns the player defaults.
func DefaultConfig() Config {
	return Config{CompletionDelay: 600 * time.Millisecond}
}

// Score counts first answers per quiz page.
type Score struct {
	Correct  int
	Answered int
}

// Completion is handed to the notifier when a session finishes.
type Completion struct {
	SessionID  string
	LessonID   string
	Difficulty lessons.Difficulty
	Score      Score
	StartedAt  time.Time
	FinishedAt time.Time
}

// CompletionNotifier receives the completion of a session.
type CompletionNotifier interface {
	LessonCompleted(ctx context.Context, c Completion) error
}

// NotifierFunc adapts a function to CompletionNotifier.
type NotifierFunc func(ctx context.Context, c Completion) error

func (f NotifierFunc) LessonCompleted(ctx context.Context, c Completion) error {
	return f(ctx, c)
}

// Phase is the coarse state of the session.
type Phase int

const (
	Viewing Phase = iota
	Completed
	Finished
)

func (p Phase) String() string {
	switch p {
	case Viewing:
		return "viewing"
	case Completed:
		return "completed"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Snapshot is the externally visible session state.
type Snapshot struct {
	SessionID         string
	LessonID          string
	CurrentPageIndex  int
	PageCount         int
	SelectedAnswerID  string // "" when the current page has no answer
	IsLessonCompleted bool
	CompletionPending bool
	Phase             Phase
}

// AnswerResult reports how an answer scored.
type AnswerResult struct {
	OptionID        string
	Correct         bool
	CorrectOptionID string
	Rationale       string
	LastPage        bool
}

// Outcome is the result of a navigation action.
type Outcome struct {
	PageIndex int
	Changed   bool
	Finished  bool
	// Notified is true only for the call that fired the notifier.
	Notified bool
}

// Player is the lesson state machine.
type Player struct {
	cfg      Config
	notifier CompletionNotifier
	now      func() time.Time

	lesson    *lessons.Lesson
	sessionID string
	startedAt time.Time

	index     int
	answers   map[string]string // page id -> option id
	results   map[string]bool   // page id -> first answer correct
	mu        sync.Mutex // guards pending and completed
	pending   bool
	completed bool
	notified  atomic.Bool
}

// Option configures a Player.
type Option func(*Player)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Player) { p.now = now }
}

// New creates a player and starts a session on lesson.
func New(lesson *lessons.Lesson, notifier CompletionNotifier, cfg Config, opts ...Option) (*Player, error) {
	p := &Player{cfg: cfg, notifier: notifier, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	if err := p.Start(lesson); err != nil {
		return nil, err
	}
	return p, nil
}

// Start begins a fresh session at the first page. Calling it again, with
// the same or another lesson, discards all session state.
func (p *Player) Start(lesson *lessons.Lesson) error {
	if lesson == nil {
		return ErrNoLesson
	}
	if lesson.PageCount() == 0 {
		return fmt.Errorf("lesson %s: %w", lesson.ID, ErrEmptyLesson)
	}
	p.lesson = lesson
	p.sessionID = uuid.New().String()
	p.startedAt = p.now()
	p.index = 0
	p.answers = make(map[string]string)
	p.results = make(map[string]bool)
	p.mu.Lock()
	p.pending = false
	p.completed = false
	p.mu.Unlock()
	p.notified.Store(false)
	p.evaluateCompletion()
	return nil
}

// Lesson returns the lesson being played.
func (p *Player) Lesson() *lessons.Lesson { return p.lesson }

// Config returns the session configuration.
func (p *Player) Config() Config { return p.cfg }

// SessionID identifies this session in event logs.
func (p *Player) SessionID() string { return p.sessionID }

// Index returns the current page index.
func (p *Player) Index() int { return p.index }

// Page returns the current page.
func (p *Player) Page() *lessons.Page { return p.lesson.Page(p.index) }

// IsLastPage reports whether the current page is the final one.
func (p *Player) IsLastPage() bool { return p.index == p.lesson.LastIndex() }

// Selected returns the answer recorded for the current page.
func (p *Player) Selected() (string, bool) {
	id, ok := p.answers[p.Page().ID]
	return id, ok
}

// Completed reports whether the lesson has been completed this session.
func (p *Player) Completed() bool {
	_, completed := p.completionState()
	return completed
}

// CompletionPending reports whether Settle will complete the lesson.
func (p *Player) CompletionPending() bool {
	pending, _ := p.completionState()
	return pending
}

func (p *Player) completionState() (pending, completed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending, p.completed
}

// Score returns the first-answer score of the session.
func (p *Player) Score() Score {
	var s Score
	for _, ok := range p.results {
		s.Answered++
		if ok {
			s.Correct++
		}
	}
	return s
}

// Progress returns the fraction of pages reached, in (0, 1].
func (p *Player) Progress() float64 {
	return float64(p.index+1) / float64(p.lesson.PageCount())
}

// Phase returns the coarse session state.
func (p *Player) Phase() Phase {
	switch {
	case p.notified.Load():
		return Finished
	case p.Completed():
		return Completed
	default:
		return Viewing
	}
}

// Snapshot returns the current state.
func (p *Player) Snapshot() Snapshot {
	sel, _ := p.Selected()
	pending, completed := p.completionState()
	return Snapshot{
		SessionID:         p.sessionID,
		LessonID:          p.lesson.ID,
		CurrentPageIndex:  p.index,
		PageCount:         p.lesson.PageCount(),
		SelectedAnswerID:  sel,
		IsLessonCompleted: completed,
		CompletionPending: pending,
		Phase:             p.Phase(),
	}
}

// CanProceed is true on non-quiz pages and on answered quiz pages.
func (p *Player) CanProceed() bool {
	return p.pageSatisfied(p.index)
}

func (p *Player) pageSatisfied(i int) bool {
	pg := p.lesson.Page(i)
	if pg == nil || pg.Kind != lessons.KindQuiz {
		return true
	}
	_, ok := p.answers[pg.ID]
	return ok
}
