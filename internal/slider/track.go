// Package slider models a horizontal range control that maps a dragged thumb
// position to a whole year. It knows nothing about rendering; positions are
// measured in abstract pixels (terminal cells in the TUI).
package slider

import "math"

// Track describes the measured geometry of a slider.
type Track struct {
	Width     float64
	ThumbSize float64
	Min       int
	Max       int
}

// MaxPos is the furthest the thumb's leading edge can travel.
func (t Track) MaxPos() float64 {
	return math.Max(0, t.Width-t.ThumbSize)
}

// Clamp limits pos to [0, MaxPos]. NaN clamps to 0.
func (t Track) Clamp(pos float64) float64 {
	if math.IsNaN(pos) || pos < 0 {
		return 0
	}
	if limit := t.MaxPos(); pos > limit {
		return limit
	}
	return pos
}

func (t Track) span() int {
	return t.Max - t.Min
}

// ClampYear limits year to [Min, Max].
func (t Track) ClampYear(year int) int {
	if year < t.Min {
		return t.Min
	}
	if year > t.Max {
		return t.Max
	}
	return year
}

// PositionToYear maps a thumb position to the nearest year. Out-of-range
// positions are clamped first, so the result is always within [Min, Max].
func (t Track) PositionToYear(pos float64) int {
	maxPos := t.MaxPos()
	if maxPos == 0 || t.span() <= 0 {
		return t.Min
	}
	steps := math.Round(t.Clamp(pos) * float64(t.span()) / maxPos)
	return t.ClampYear(int(steps) + t.Min)
}

// YearToPosition maps a year to the thumb position that represents it.
func (t Track) YearToPosition(year int) float64 {
	if t.span() <= 0 {
		return 0
	}
	year = t.ClampYear(year)
	return float64(year-t.Min) * t.MaxPos() / float64(t.span())
}
