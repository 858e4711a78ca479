package progress

import "github.com/abhisek/finwise/internal/lessons"

// KnowledgeSeekerLessons is the distinct lesson count for Knowledge Seeker.
const KnowledgeSeekerLessons = 5

// AchievementID identifies one achievement.
type AchievementID string

const (
	FirstLesson     AchievementID = "first-lesson"
	QuizMaster      AchievementID = "quiz-master"
	KnowledgeSeeker AchievementID = "knowledge-seeker"
)

// AllAchievements returns the achievements in display order.
func AllAchievements() []AchievementID {
	return []AchievementID{FirstLesson, QuizMaster, KnowledgeSeeker}
}

// DisplayName returns a human-readable label.
func (a AchievementID) DisplayName() string {
	switch a {
	case FirstLesson:
		return "First Lesson"
	case QuizMaster:
		return "Quiz Master"
	case KnowledgeSeeker:
		return "Knowledge Seeker"
	default:
		return string(a)
	}
}

// Description says how to unlock it.
func (a AchievementID) Description() string {
	switch a {
	case FirstLesson:
		return "Complete your first lesson"
	case QuizMaster:
		return "Complete an Intermediate lesson"
	case KnowledgeSeeker:
		return "Complete 5 different lessons"
	default:
		return ""
	}
}

// Icon returns the display icon.
func (a AchievementID) Icon() string {
	switch a {
	case FirstLesson:
		return "🌱"
	case QuizMaster:
		return "🧠"
	case KnowledgeSeeker:
		return "📚"
	default:
		return "✦"
	}
}

// Achievements is derived entirely from a Record.
type Achievements struct {
	FirstLesson     bool
	QuizMaster      bool
	KnowledgeSeeker bool

	LessonsCompleted int
	RewardCollected  bool
}

// Derive computes achievements from a record. It is pure, so achievements
// can only grow as the record grows.
func Derive(r *Record) Achievements {
	n := r.DistinctLessons()
	return Achievements{
		FirstLesson:      n >= 1,
		QuizMaster:       r.CompletedDifficulties[lessons.Intermediate],
		KnowledgeSeeker:  n >= KnowledgeSeekerLessons,
		LessonsCompleted: n,
		RewardCollected:  r.Reward.Collected,
	}
}

// Unlocked reports one achievement.
func (a Achievements) Unlocked(id AchievementID) bool {
	switch id {
	case FirstLesson:
		return a.FirstLesson
	case QuizMaster:
		return a.QuizMaster
	case KnowledgeSeeker:
		return a.KnowledgeSeeker
	}
	return false
}

// AllUnlocked is the reward eligibility condition.
func (a Achievements) AllUnlocked() bool {
	return a.FirstLesson && a.QuizMaster && a.KnowledgeSeeker
}

// UnlockedCount returns how many achievements are unlocked.
func (a Achievements) UnlockedCount() int {
	n := 0
	for _, id := range AllAchievements() {
		if a.Unlocked(id) {
			n++
		}
	}
	return n
}

// RewardStatus is the outcome of a reward claim.
type RewardStatus int

const (
	RewardNotEligible RewardStatus = iota
	RewardCollected
	RewardAlreadyCollected
)

func (s RewardStatus) String() string {
	switch s {
	case RewardCollected:
		return "collected"
	case RewardAlreadyCollected:
		return "already collected"
	default:
		return "not eligible"
	}
}
