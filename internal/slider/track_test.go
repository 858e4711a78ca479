package slider

import (
	"math"
	"testing"
)

func yearTrack(width float64) Track {
	return Track{Width: width, ThumbSize: 3, Min: 1, Max: 20}
}

func TestYearRoundTrip(t *testing.T) {
	for _, width := range []float64{22, 40, 63.5, 300} {
		tr := yearTrack(width)
		for y := 1; y <= 20; y++ {
			if got := tr.PositionToYear(tr.YearToPosition(y)); got != y {
				t.Errorf("width %.1f: PositionToYear(YearToPosition(%d)) = %d", width, y, got)
			}
		}
	}
}

func TestPositionToYearClamps(t *testing.T) {
	tr := yearTrack(60)
	tests := []struct {
		name string
		pos  float64
		want int
	}{
		{"negative", -50, 1},
		{"zero", 0, 1},
		{"end", tr.MaxPos(), 20},
		{"beyond width", 10_000, 20},
		{"nan", math.NaN(), 1},
		{"positive infinity", math.Inf(1), 20},
		{"negative infinity", math.Inf(-1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.PositionToYear(tt.pos); got != tt.want {
				t.Errorf("PositionToYear(%v) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestZeroWidthTrack(t *testing.T) {
	tr := yearTrack(0)
	if tr.MaxPos() != 0 {
		t.Errorf("MaxPos = %v, want 0", tr.MaxPos())
	}
	if got := tr.PositionToYear(12); got != 1 {
		t.Errorf("PositionToYear on zero track = %d, want 1", got)
	}
	if got := tr.YearToPosition(15); got != 0 {
		t.Errorf("YearToPosition on zero track = %v, want 0", got)
	}
}

func TestYearToPositionLinear(t *testing.T) {
	tr := yearTrack(41) // maxPos = 38, two units per year
	if got := tr.YearToPosition(1); got != 0 {
		t.Errorf("YearToPosition(1) = %v, want 0", got)
	}
	if got := tr.YearToPosition(20); got != 38 {
		t.Errorf("YearToPosition(20) = %v, want 38", got)
	}
	if got := tr.YearToPosition(11); got != 20 {
		t.Errorf("YearToPosition(11) = %v, want 20", got)
	}
	if got := tr.YearToPosition(99); got != 38 {
		t.Errorf("YearToPosition(99) = %v, want clamped 38", got)
	}
}
