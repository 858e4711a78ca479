package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	Before   int64     // sequence < Before
	From     time.Time // timestamp >= From
	To       time.Time // timestamp <= To
	LessonID string
	UserID   string
}

// Lesson event actions.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionAbandon  = "abandon"
)

// LessonEventData captures one lesson session transition.
type LessonEventData struct {
	SessionID  string
	UserID     string
	LessonID   string
	Difficulty string
	Action     string
	PageIndex  int
	Correct    int
	Answered   int
	Duration   time.Duration
}

// LessonEvent is a stored LessonEventData.
type LessonEvent struct {
	Sequence  int64
	Timestamp time.Time
	LessonEventData
}

// QuizAnswerEventData captures one locked-in quiz answer.
type QuizAnswerEventData struct {
	SessionID string
	UserID    string
	LessonID  string
	PageID    string
	OptionID  string
	Correct   bool
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LessonStat aggregates lesson events for one lesson.
type LessonStat struct {
	LessonID  string
	Started   int
	Completed int
	Correct   int
	Answered  int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendLessonEvent(ctx context.Context, data LessonEventData) error
	AppendQuizAnswer(ctx context.Context, data QuizAnswerEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEvent, error)
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	LessonStats(ctx context.Context, userID string) ([]LessonStat, error)
	QuizAccuracy(ctx context.Context, userID string) (correct, total int, err error)
}

// NopEventRepo discards events. Engines without an event log use it.
type NopEventRepo struct{}

func (NopEventRepo) AppendLessonEvent(context.Context, LessonEventData) error { return nil }

func (NopEventRepo) AppendQuizAnswer(context.Context, QuizAnswerEventData) error { return nil }

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error { return nil }

func (NopEventRepo) QueryLessonEvents(context.Context, QueryOpts) ([]LessonEvent, error) {
	return nil, nil
}

func (NopEventRepo) QueryLLMEvents(context.Context, QueryOpts) ([]LLMRequestEvent, error) {
	return nil, nil
}

func (NopEventRepo) LessonStats(context.Context, string) ([]LessonStat, error) { return nil, nil }

func (NopEventRepo) QuizAccuracy(context.Context, string) (int, int, error) { return 0, 0, nil }
