package progress

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/goals"
	"github.com/abhisek/finwise/internal/identity"
	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/metrics"
	"github.com/abhisek/finwise/internal/player"
)

// Tracker reads and updates a user's progress through a Store.
type Tracker struct {
	store   Store
	users   identity.Provider
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewTracker creates a tracker. logger and m may be nil.
func NewTracker(store Store, users identity.Provider, logger *zap.Logger, m *metrics.Metrics) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:   store,
		users:   users,
		logger:  logger.Named("progress"),
		metrics: m,
		now:     time.Now,
	}
}

func (t *Tracker) user() (string, error) {
	id, ok := t.users.CurrentUser()
	if !ok {
		return "", ErrNotSignedIn
	}
	return id, nil
}

// load reads the user's record. A missing record is an empty one.
func (t *Tracker) load(ctx context.Context, op, userID string) (*Record, error) {
	rec, err := t.store.Get(ctx, userID)
	if errors.Is(err, ErrRecordNotFound) {
		return NewRecord(), nil
	}
	if err != nil {
		return nil, t.fail(op, userID, err)
	}
	if rec.CompletedDifficulties == nil {
		rec.CompletedDifficulties = map[lessons.Difficulty]bool{}
	}
	return rec, nil
}

func (t *Tracker) update(ctx context.Context, op, userID string, p Patch) error {
	if err := t.store.Update(ctx, userID, p); err != nil {
		return t.fail(op, userID, err)
	}
	return nil
}

func (t *Tracker) fail(op, userID string, err error) error {
	t.metrics.StoreError(op)
	t.logger.Error("progress store failure",
		zap.String("op", op),
		zap.String("user", userID),
		zap.Error(err),
	)
	return &PersistenceError{Op: op, Err: err}
}

// Record returns the user's current record.
func (t *Tracker) Record(ctx context.Context) (*Record, error) {
	userID, err := t.user()
	if err != nil {
		return nil, err
	}
	return t.load(ctx, "get", userID)
}

// Achievements derives the user's achievements from the stored record.
func (t *Tracker) Achievements(ctx context.Context) (Achievements, error) {
	rec, err := t.Record(ctx)
	if err != nil {
		return Achievements{}, err
	}
	return Derive(rec), nil
}

// CompleteLesson records a completed lesson, then re-reads the record and
// derives achievements from what the store returns. If the re-read does not
// yet reflect the write, the write is merged in locally so that flags never
// go backwards.
func (t *Tracker) CompleteLesson(ctx context.Context, lessonID string, difficulty lessons.Difficulty) (Achievements, error) {
	userID, err := t.user()
	if err != nil {
		return Achievements{}, err
	}

	rec, err := t.load(ctx, "get", userID)
	if err != nil {
		return Achievements{}, err
	}

	var p Patch
	if !rec.HasLesson(lessonID) {
		p.AddLessons = []string{lessonID}
	}
	if difficulty.Valid() && !rec.CompletedDifficulties[difficulty] {
		p.CompletedDifficulties = map[lessons.Difficulty]bool{difficulty: true}
	}
	if !p.IsEmpty() {
		if err := t.update(ctx, "update", userID, p); err != nil {
			return Derive(merge(rec, lessonID, difficulty)), err
		}
	}
	t.metrics.LessonCompleted(string(difficulty))

	fresh, err := t.load(ctx, "reread", userID)
	if err != nil {
		return Derive(merge(rec, lessonID, difficulty)), err
	}
	if !fresh.HasLesson(lessonID) || (difficulty.Valid() && !fresh.CompletedDifficulties[difficulty]) {
		t.logger.Warn("progress re-read lags behind write",
			zap.String("user", userID),
			zap.String("lesson", lessonID),
		)
		fresh = merge(fresh, lessonID, difficulty)
	}

	t.logger.Info("lesson completed",
		zap.String("user", userID),
		zap.String("lesson", lessonID),
		zap.String("difficulty", string(difficulty)),
		zap.Int("distinct_lessons", fresh.DistinctLessons()),
	)
	return Derive(fresh), nil
}

// merge returns a copy of r with the lesson and difficulty added.
func merge(r *Record, lessonID string, difficulty lessons.Difficulty) *Record {
	c := r.Clone()
	if !c.HasLesson(lessonID) {
		c.LessonsCompleted = append(c.LessonsCompleted, lessonID)
	}
	if difficulty.Valid() {
		c.CompletedDifficulties[difficulty] = true
	}
	return c
}

// CollectReward claims the reward once every achievement is unlocked. The
// claim is a one-way latch.
func (t *Tracker) CollectReward(ctx context.Context) (RewardStatus, error) {
	userID, err := t.user()
	if err != nil {
		return RewardNotEligible, err
	}

	rec, err := t.load(ctx, "get", userID)
	if err != nil {
		return RewardNotEligible, err
	}
	if rec.Reward.Collected {
		return RewardAlreadyCollected, nil
	}
	if !Derive(rec).AllUnlocked() {
		return RewardNotEligible, nil
	}

	now := t.now()
	if err := t.update(ctx, "collect", userID, Patch{RewardCollected: ptr(true), RewardCollectedAt: &now}); err != nil {
		return RewardNotEligible, err
	}
	t.metrics.RewardCollected()
	t.logger.Info("reward collected", zap.String("user", userID))
	return RewardCollected, nil
}

// Goal returns the user's savings goal, or nil when none is set.
func (t *Tracker) Goal(ctx context.Context) (*goals.Goal, error) {
	rec, err := t.Record(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Goal, nil
}

// SetGoal validates and stores the user's savings goal.
func (t *Tracker) SetGoal(ctx context.Context, g goals.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	userID, err := t.user()
	if err != nil {
		return err
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = t.now()
	}
	return t.update(ctx, "goal", userID, Patch{Goal: &g})
}

// Notifier adapts the tracker to the lesson player's completion hook.
func (t *Tracker) Notifier() player.CompletionNotifier {
	return player.NotifierFunc(func(ctx context.Context, c player.Completion) error {
		_, err := t.CompleteLesson(ctx, c.LessonID, c.Difficulty)
		return err
	})
}
