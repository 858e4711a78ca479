package interest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Projection is the outcome of saving a fixed amount every month.
type Projection struct {
	Total         int64
	Contributions int64
	Growth        int64
}

// ProjectionInput describes a monthly savings plan.
type ProjectionInput struct {
	MonthlyContribution decimal.Decimal
	Years               int
	AnnualReturnPct     decimal.Decimal // percent, e.g. 8 for 8%
}

// Validate rejects negative contributions or durations.
func (in ProjectionInput) Validate() error {
	if in.MonthlyContribution.IsNegative() {
		return fmt.Errorf("%w: monthly contribution must not be negative", ErrInvalidParams)
	}
	if in.Years < 0 {
		return fmt.Errorf("%w: years must not be negative", ErrInvalidParams)
	}
	return nil
}

// Project computes the future value of an ordinary annuity: contributions at
// the end of every month, compounded monthly at AnnualReturnPct/12.
// A zero contribution or zero years short-circuits to the zero Projection.
func Project(in ProjectionInput) Projection {
	if in.MonthlyContribution.IsZero() || in.Years == 0 {
		return Projection{}
	}

	months := int64(in.Years) * 12
	monthlyReturn := in.AnnualReturnPct.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
	contributions := in.MonthlyContribution.Mul(decimal.NewFromInt(months))

	total := contributions
	if !monthlyReturn.IsZero() {
		growthFactor := powInt(decimal.NewFromInt(1).Add(monthlyReturn), int(months)).Sub(decimal.NewFromInt(1))
		total = in.MonthlyContribution.Mul(growthFactor.DivRound(monthlyReturn, powPrecision))
	}

	return Projection{
		Total:         roundUnits(total),
		Contributions: roundUnits(contributions),
		Growth:        roundUnits(total.Sub(contributions)),
	}
}

// MonthsToReach returns how many monthly contributions are needed before the
// projected balance reaches target, capped at maxMonths. ok is false when the
// target cannot be reached within the cap.
func MonthsToReach(target, monthly, annualReturnPct decimal.Decimal, maxMonths int) (months int, ok bool) {
	if !target.IsPositive() {
		return 0, true
	}
	if !monthly.IsPositive() {
		return 0, false
	}
	monthlyReturn := annualReturnPct.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
	one := decimal.NewFromInt(1)
	balance := decimal.Zero
	for m := 1; m <= maxMonths; m++ {
		balance = balance.Mul(one.Add(monthlyReturn)).Add(monthly).Round(powPrecision)
		if balance.GreaterThanOrEqual(target) {
			return m, true
		}
	}
	return maxMonths, false
}
