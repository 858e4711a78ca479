package goals

import (
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountNumberDeterministic(t *testing.T) {
	a := AccountNumber("New Bicycle")
	b := AccountNumber("  new   BICYCLE ")
	if a != b {
		t.Errorf("AccountNumber differs for equivalent names: %q vs %q", a, b)
	}
	if AccountNumber("Holiday") == a {
		t.Error("different names produced the same number")
	}
}

func TestAccountNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^\d{4} \d{4} \d{2}$`)
	for _, name := range []string{"", "x", "Emergency fund", "Laptop for university"} {
		if got := AccountNumber(name); !re.MatchString(got) {
			t.Errorf("AccountNumber(%q) = %q, want xxxx xxxx xx", name, got)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		ok   bool
	}{
		{"valid", Goal{Name: "Bike", Target: 5000, Monthly: 500}, true},
		{"zero monthly allowed", Goal{Name: "Bike", Target: 5000}, true},
		{"blank name", Goal{Name: "  ", Target: 5000}, false},
		{"zero target", Goal{Name: "Bike"}, false},
		{"negative monthly", Goal{Name: "Bike", Target: 5000, Monthly: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidGoal) {
				t.Errorf("Validate() error %v is not ErrInvalidGoal", err)
			}
		})
	}
}

func TestMonthsToTarget(t *testing.T) {
	g := Goal{Name: "Bike", Target: 5000, Monthly: 500}
	months, ok := MonthsToTarget(g, decimal.Zero)
	if !ok || months != 10 {
		t.Errorf("MonthsToTarget = (%d, %v), want (10, true)", months, ok)
	}

	g.Monthly = 0
	if _, ok := MonthsToTarget(g, decimal.NewFromInt(8)); ok {
		t.Error("goal with no contribution should be unreachable")
	}
}

func TestAccountProgress(t *testing.T) {
	a := OpenAccount("sam", Goal{Name: "Bike", Target: 1000})
	if a.Number != AccountNumber("Bike") {
		t.Errorf("Number = %q", a.Number)
	}
	a.Balance = 250
	if got := a.Progress(); got != 0.25 {
		t.Errorf("Progress() = %v, want 0.25", got)
	}
	a.Balance = 5000
	if got := a.Progress(); got != 1 {
		t.Errorf("Progress() = %v, want 1", got)
	}
}
