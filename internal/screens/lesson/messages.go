package lesson

import (
	"github.com/abhisek/finwise/internal/coach"
	"github.com/abhisek/finwise/internal/progress"
)

// settleMsg fires once the completion delay has passed. Stale generations
// are ignored so only the latest pending completion settles.
type settleMsg struct {
	gen int
}

// baselineMsg carries the achievements before this session, used to tell
// which ones the session unlocked.
type baselineMsg struct {
	Achievements progress.Achievements
	Err          error
}

// completedMsg is sent when the completion has been persisted.
type completedMsg struct {
	Achievements progress.Achievements
	Err          error
}

// explainedMsg carries a coach reply for one quiz page.
type explainedMsg struct {
	PageID      string
	Explanation *coach.Explanation
	Err         error
}
