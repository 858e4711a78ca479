// Package goals models the savings goal a user sets during onboarding and
// the mock savings account shown next to it.
package goals

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhisek/finwise/internal/interest"
)

// MaxPlanMonths caps how far ahead MonthsToTarget searches.
const MaxPlanMonths = 50 * 12

var ErrInvalidGoal = errors.New("invalid goal")

// Goal is a named savings target with a planned monthly contribution.
type Goal struct {
	Name      string    `json:"name"`
	Target    int64     `json:"target"`
	Monthly   int64     `json:"monthly"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks that the goal can be planned.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGoal)
	}
	if g.Target <= 0 {
		return fmt.Errorf("%w: target must be positive", ErrInvalidGoal)
	}
	if g.Monthly < 0 {
		return fmt.Errorf("%w: monthly contribution must not be negative", ErrInvalidGoal)
	}
	return nil
}

// MonthsToTarget returns how many monthly contributions reach the target at
// the given annual return. ok is false when the goal is out of reach within
// MaxPlanMonths.
func MonthsToTarget(g Goal, annualReturnPct decimal.Decimal) (int, bool) {
	return interest.MonthsToReach(
		decimal.NewFromInt(g.Target),
		decimal.NewFromInt(g.Monthly),
		annualReturnPct,
		MaxPlanMonths,
	)
}

// Account is the mock savings account card.
type Account struct {
	Holder  string
	Number  string
	Goal    Goal
	Balance int64
}

// OpenAccount builds the display account for a goal.
func OpenAccount(holder string, g Goal) Account {
	return Account{Holder: holder, Number: AccountNumber(g.Name), Goal: g}
}

// Progress is the fraction of the target saved so far, in [0, 1].
func (a Account) Progress() float64 {
	if a.Goal.Target <= 0 || a.Balance <= 0 {
		return 0
	}
	return min(1, float64(a.Balance)/float64(a.Goal.Target))
}

// AccountNumber derives a display-only account number from a goal name.
// The same name, ignoring case and surrounding or repeated whitespace,
// always yields the same number. It is not a real account identifier.
func AccountNumber(name string) string {
	h := fnv.New64a()
	h.Write([]byte(normalize(name)))
	digits := fmt.Sprintf("%010d", h.Sum64()%10_000_000_000)
	return digits[:4] + " " + digits[4:8] + " " + digits[8:]
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
