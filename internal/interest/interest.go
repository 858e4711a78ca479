// Package interest computes the simple-versus-compound comparison shown on
// interactive lesson pages and the annuity projection behind the simulator.
//
// All arithmetic is done on decimals and rounded to whole currency units only
// at the very end, so results match the closed-form formulas to the cent.
package interest

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Bounds of the year range the interactive page allows.
const (
	MinYears = 1
	MaxYears = 20
)

// powPrecision is the number of decimal places kept while raising to a power.
const powPrecision = 24

// ErrInvalidParams is returned by the validators for inputs outside the
// supported domain.
var ErrInvalidParams = errors.New("invalid interest parameters")

// Params are the inputs of a simple-versus-compound comparison.
type Params struct {
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal // fraction, e.g. 0.08
	Years      int
}

// DefaultParams returns the principal and rate used by the lesson widget.
func DefaultParams() Params {
	return Params{
		Principal:  decimal.NewFromInt(10000),
		AnnualRate: decimal.RequireFromString("0.08"),
		Years:      MinYears,
	}
}

// WithYears returns a copy of p for a different number of years.
func (p Params) WithYears(years int) Params {
	p.Years = years
	return p
}

// Validate reports whether p is inside the calculator's contract:
// a positive principal, a rate in (0,1) and years in [MinYears, MaxYears].
func (p Params) Validate() error {
	switch {
	case !p.Principal.IsPositive():
		return fmt.Errorf("%w: principal must be positive", ErrInvalidParams)
	case !p.AnnualRate.IsPositive() || p.AnnualRate.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: annual rate must be in (0,1)", ErrInvalidParams)
	case p.Years < MinYears || p.Years > MaxYears:
		return fmt.Errorf("%w: years must be in [%d,%d]", ErrInvalidParams, MinYears, MaxYears)
	}
	return nil
}

// Comparison holds the rounded balances after Years years.
type Comparison struct {
	Years      int
	Simple     int64
	Compound   int64
	Difference int64
}

// Compare computes the simple and compound balances for p. Inputs are not
// validated; callers check Validate first.
func Compare(p Params) Comparison {
	simple, compound := balances(p)
	return Comparison{
		Years:      p.Years,
		Simple:     roundUnits(simple),
		Compound:   roundUnits(compound),
		Difference: roundUnits(compound.Sub(simple)),
	}
}

// YearRow is one line of a Schedule.
type YearRow = Comparison

// Schedule returns the comparison for every year in [MinYears, MaxYears].
func Schedule(p Params) []YearRow {
	rows := make([]YearRow, 0, MaxYears-MinYears+1)
	for y := MinYears; y <= MaxYears; y++ {
		rows = append(rows, Compare(p.WithYears(y)))
	}
	return rows
}

func balances(p Params) (simple, compound decimal.Decimal) {
	years := decimal.NewFromInt(int64(p.Years))
	simple = p.Principal.Add(p.Principal.Mul(p.AnnualRate).Mul(years))
	compound = p.Principal.Mul(powInt(decimal.NewFromInt(1).Add(p.AnnualRate), p.Years))
	return simple, compound
}

// powInt raises base to a non-negative integer power by repeated squaring,
// keeping powPrecision decimal places at each step.
func powInt(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(powPrecision)
		}
		base = base.Mul(base).Round(powPrecision)
		n >>= 1
	}
	return result
}

// roundUnits rounds half away from zero to whole currency units.
func roundUnits(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
