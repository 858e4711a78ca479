package slider

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// DeadZone is how far a pointer must travel horizontally before the
	// slider claims the gesture.
	DeadZone = 2.0

	// ActiveScale is the thumb scale while it is being dragged.
	ActiveScale = 1.3

	pulseFrames   = 18
	settleEpsilon = 0.01
)

// Claims reports whether a pointer movement of (dx, dy) should be captured by
// the slider rather than by a scrolling ancestor: horizontal intent must
// dominate vertical intent and exceed DeadZone.
func Claims(dx, dy float64) bool {
	return math.Abs(dx) > math.Abs(dy) && math.Abs(dx) > DeadZone
}

// State is a read-only view of a Control.
type State struct {
	TrackWidth  float64
	CurrentYear int
	DragOrigin  float64
	Position    float64
	Scale       float64
	Dragging    bool
	Pulsing     bool
}

// Control is a slider instance. It is not safe for concurrent use; all calls
// are expected from the UI loop.
type Control struct {
	track    Track
	year     int
	onChange func(year int)

	dragging bool
	origin   float64
	lastDx   float64

	// Spring-driven animation of the thumb position and scale.
	spring   harmonica.Spring
	pos      float64
	vel      float64
	target   float64
	scale    float64
	scaleVel float64
	scaleTo  float64
	pulse    int
}

// New creates a Control on track showing year. onChange, if non-nil, is
// called synchronously whenever the selected year changes.
func New(track Track, year int, onChange func(year int)) *Control {
	c := &Control{
		track:    track,
		year:     track.ClampYear(year),
		onChange: onChange,
		spring:   harmonica.NewSpring(harmonica.FPS(60), 7.0, 0.45),
		scale:    1,
		scaleTo:  1,
	}
	c.jumpTo(c.track.YearToPosition(c.year))
	return c
}

// Track returns the current geometry.
func (c *Control) Track() Track { return c.track }

// Year returns the selected year.
func (c *Control) Year() int { return c.year }

// Position returns the thumb position, always within [0, MaxPos].
func (c *Control) Position() float64 { return c.track.Clamp(c.pos) }

// Dragging reports whether a gesture is in progress.
func (c *Control) Dragging() bool { return c.dragging }

// State returns a snapshot of the control.
func (c *Control) State() State {
	return State{
		TrackWidth:  c.track.Width,
		CurrentYear: c.year,
		DragOrigin:  c.origin,
		Position:    c.Position(),
		Scale:       c.scale,
		Dragging:    c.dragging,
		Pulsing:     c.pulse > 0,
	}
}

// Resize applies a newly measured track width. The thumb is re-placed from
// the current year so it never points at a stale position.
func (c *Control) Resize(width float64) {
	if width == c.track.Width {
		return
	}
	c.track.Width = width
	c.jumpTo(c.track.YearToPosition(c.year))
	if c.dragging {
		c.origin = c.pos - c.lastDx
	}
}

// Begin starts a drag gesture at the current thumb position.
func (c *Control) Begin() {
	c.dragging = true
	c.origin = c.Position()
	c.lastDx = 0
	c.vel = 0
	c.pos = c.origin
	c.target = c.origin
	c.scaleTo = ActiveScale
}

// Move updates the thumb for a horizontal offset dx measured from the start
// of the gesture. It returns true when the selected year changed. Moves
// outside a gesture are ignored.
func (c *Control) Move(dx float64) bool {
	if !c.dragging {
		return false
	}
	if math.IsNaN(dx) || math.IsInf(dx, 0) {
		dx = 0
	}
	c.lastDx = dx
	c.pos = c.track.Clamp(c.origin + dx)
	c.target = c.pos
	c.vel = 0
	return c.setYear(c.track.PositionToYear(c.pos))
}

// End finishes the gesture: the thumb springs to the exact position of the
// selected year, shrinks back and the difference indicator pulses.
func (c *Control) End() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.target = c.track.YearToPosition(c.year)
	c.scaleTo = 1
	c.pulse = pulseFrames
}

// SetYear selects year directly (keyboard control) and animates the thumb
// towards it. It returns true when the year changed.
func (c *Control) SetYear(year int) bool {
	changed := c.setYear(c.track.ClampYear(year))
	if !c.dragging {
		c.target = c.track.YearToPosition(c.year)
		if changed {
			c.pulse = pulseFrames
		}
	}
	return changed
}

// Step advances the animations by one frame and reports whether another
// frame is needed.
func (c *Control) Step() bool {
	if !c.dragging {
		c.pos, c.vel = c.spring.Update(c.pos, c.vel, c.target)
		if math.Abs(c.pos-c.target) < settleEpsilon && math.Abs(c.vel) < settleEpsilon {
			c.pos, c.vel = c.target, 0
		}
	}
	c.scale, c.scaleVel = c.spring.Update(c.scale, c.scaleVel, c.scaleTo)
	if math.Abs(c.scale-c.scaleTo) < settleEpsilon && math.Abs(c.scaleVel) < settleEpsilon {
		c.scale, c.scaleVel = c.scaleTo, 0
	}
	if c.pulse > 0 {
		c.pulse--
	}
	return c.Animating()
}

// Animating reports whether Step still has work to do.
func (c *Control) Animating() bool {
	moving := !c.dragging && (c.pos != c.target || c.vel != 0)
	return moving || c.scale != c.scaleTo || c.scaleVel != 0 || c.pulse > 0
}

func (c *Control) setYear(year int) bool {
	if year == c.year {
		return false
	}
	c.year = year
	if c.onChange != nil {
		c.onChange(year)
	}
	return true
}

func (c *Control) jumpTo(pos float64) {
	c.pos = pos
	c.target = pos
	c.vel = 0
}
