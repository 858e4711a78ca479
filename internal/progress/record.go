// Package progress tracks which lessons a user has completed, derives
// achievements from that record and guards the one-time reward claim.
package progress

import (
	"slices"
	"time"

	"github.com/abhisek/finwise/internal/goals"
	"github.com/abhisek/finwise/internal/lessons"
)

// Record is the per-user progress document.
type Record struct {
	LessonsCompleted      []string                    `json:"lessonsCompleted"`
	CompletedDifficulties map[lessons.Difficulty]bool `json:"completedDifficulties"`
	Reward                Reward                      `json:"reward"`
	Goal                  *goals.Goal                 `json:"goal,omitempty"`
	UpdatedAt             time.Time                   `json:"updatedAt"`
}

// Reward is the one-way reward latch.
type Reward struct {
	Collected   bool       `json:"collected"`
	CollectedAt *time.Time `json:"collectedAt,omitempty"`
}

// NewRecord returns the record of a user who has done nothing yet.
func NewRecord() *Record {
	return &Record{
		LessonsCompleted:      []string{},
		CompletedDifficulties: map[lessons.Difficulty]bool{},
	}
}

// HasLesson reports whether id is in the completed set.
func (r *Record) HasLesson(id string) bool {
	return slices.Contains(r.LessonsCompleted, id)
}

// DistinctLessons counts unique completed lesson ids.
func (r *Record) DistinctLessons() int {
	seen := make(map[string]struct{}, len(r.LessonsCompleted))
	for _, id := range r.LessonsCompleted {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.LessonsCompleted = slices.Clone(r.LessonsCompleted)
	if c.LessonsCompleted == nil {
		c.LessonsCompleted = []string{}
	}
	c.CompletedDifficulties = make(map[lessons.Difficulty]bool, len(r.CompletedDifficulties))
	for k, v := range r.CompletedDifficulties {
		c.CompletedDifficulties[k] = v
	}
	if r.Reward.CollectedAt != nil {
		at := *r.Reward.CollectedAt
		c.Reward.CollectedAt = &at
	}
	if r.Goal != nil {
		g := *r.Goal
		c.Goal = &g
	}
	return &c
}

// Patch is a partial update. Nil fields are left untouched; map entries are
// merged key by key. AddLessons is unioned into the stored list inside the
// engine's transaction, so concurrent appends from other devices survive;
// LessonsCompleted replaces the whole list.
type Patch struct {
	LessonsCompleted      *[]string
	AddLessons            []string
	CompletedDifficulties map[lessons.Difficulty]bool
	RewardCollected       *bool
	RewardCollectedAt     *time.Time
	Goal                  *goals.Goal
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.LessonsCompleted == nil && len(p.AddLessons) == 0 && len(p.CompletedDifficulties) == 0 &&
		p.RewardCollected == nil && p.RewardCollectedAt == nil && p.Goal == nil
}

// Apply merges p into r. Every store engine uses it so merge semantics are
// the same everywhere. It refuses to clear a collected reward.
func (p Patch) Apply(r *Record, now time.Time) error {
	if p.RewardCollected != nil && !*p.RewardCollected {
		return ErrLatchViolation
	}
	if p.LessonsCompleted != nil {
		r.LessonsCompleted = slices.Clone(*p.LessonsCompleted)
	}
	for _, id := range p.AddLessons {
		if !r.HasLesson(id) {
			r.LessonsCompleted = append(r.LessonsCompleted, id)
		}
	}
	if len(p.CompletedDifficulties) > 0 && r.CompletedDifficulties == nil {
		r.CompletedDifficulties = make(map[lessons.Difficulty]bool, len(p.CompletedDifficulties))
	}
	for d, v := range p.CompletedDifficulties {
		r.CompletedDifficulties[d] = v
	}
	if p.RewardCollected != nil && !r.Reward.Collected {
		r.Reward.Collected = true
		at := now
		if p.RewardCollectedAt != nil {
			at = *p.RewardCollectedAt
		}
		r.Reward.CollectedAt = &at
	}
	if p.Goal != nil {
		g := *p.Goal
		r.Goal = &g
	}
	r.UpdatedAt = now
	return nil
}

func ptr[T any](v T) *T { return &v }
