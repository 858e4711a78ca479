package components

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/finwise/internal/slider"
	"github.com/abhisek/finwise/internal/ui/theme"
)

const sliderFrame = time.Second / 60

// thumbReach is how many cells either side of the thumb still grab it.
const thumbReach = 1

// SliderFrameMsg drives one animation frame of the slider with the given id.
type SliderFrameMsg struct {
	ID int
}

var nextSliderID int

// Slider renders a slider.Control as a line of cells. Mouse drags that start
// on the thumb map to Begin/Move/End with one cell per pixel; left and right
// keys step the year. Until the track has been placed on screen, with Place
// or Locate, no press can reach the thumb.
type Slider struct {
	id      int
	ctrl    *slider.Control
	ticking bool

	// where the first track cell was last drawn
	placed  bool
	originX int
	originY int
	plain   string // unstyled track line from the last View

	// pointer gesture, measured from the press
	pressed bool
	pressX  int
	pressY  int
}

// NewSlider builds a slider over [minYear, maxYear] that is width cells wide.
// onChange fires synchronously on every year change, including mid-drag.
func NewSlider(minYear, maxYear, year, width int, onChange func(int)) *Slider {
	nextSliderID++
	track := slider.Track{Width: float64(width), ThumbSize: 1, Min: minYear, Max: maxYear}
	return &Slider{id: nextSliderID, ctrl: slider.New(track, year, onChange)}
}

func (s *Slider) Year() int { return s.ctrl.Year() }

func (s *Slider) State() slider.State { return s.ctrl.State() }

// Dragging reports whether the slider owns the current pointer gesture.
func (s *Slider) Dragging() bool { return s.ctrl.Dragging() }

// Place records the cell where the track starts.
func (s *Slider) Place(x, y int) {
	s.placed, s.originX, s.originY = true, x, y
}

// Locate finds the track drawn by the last View inside frame, a rendered
// screen that may carry styling, and places the slider there.
func (s *Slider) Locate(frame string) bool {
	s.placed = false
	if s.plain == "" {
		return false
	}
	for y, line := range strings.Split(frame, "\n") {
		plain := ansi.Strip(line)
		if i := strings.Index(plain, s.plain); i >= 0 {
			s.Place(ansi.StringWidth(plain[:i]), y)
			return true
		}
	}
	return false
}

// ThumbCell returns the cell the thumb is drawn at, once placed.
func (s *Slider) ThumbCell() (x, y int, ok bool) {
	if !s.placed {
		return 0, 0, false
	}
	return s.originX + s.thumbColumn(), s.originY, true
}

func (s *Slider) onThumb(x, y int) bool {
	tx, ty, ok := s.ThumbCell()
	if !ok || y != ty {
		return false
	}
	d := x - tx
	return d >= -thumbReach && d <= thumbReach
}

func (s *Slider) thumbColumn() int {
	st := s.ctrl.State()
	return max(0, min(int(st.TrackWidth)-1, int(math.Round(st.Position))))
}

// Resize applies a new width in cells.
func (s *Slider) Resize(width int) {
	s.ctrl.Resize(float64(width))
}

// Update handles keys, mouse gestures and animation frames. claimed is true
// when the message was consumed by the slider, so a surrounding pager must
// ignore it.
func (s *Slider) Update(msg tea.Msg) (cmd tea.Cmd, claimed bool) {
	switch msg := msg.(type) {
	case SliderFrameMsg:
		if msg.ID != s.id {
			return nil, false
		}
		s.ticking = false
		if s.ctrl.Step() {
			return s.tick(), true
		}
		return nil, true

	case tea.KeyPressMsg:
		switch msg.String() {
		case "left", "h":
			s.ctrl.SetYear(s.ctrl.Year() - 1)
		case "right", "l":
			s.ctrl.SetYear(s.ctrl.Year() + 1)
		case "home":
			s.ctrl.SetYear(s.ctrl.Track().Min)
		case "end":
			s.ctrl.SetYear(s.ctrl.Track().Max)
		default:
			return nil, false
		}
		return s.tick(), true

	case tea.MouseClickMsg:
		m := msg.Mouse()
		if m.Button != tea.MouseLeft || !s.onThumb(m.X, m.Y) {
			s.pressed = false
			return nil, false
		}
		s.pressed, s.pressX, s.pressY = true, m.X, m.Y
		return nil, false

	case tea.MouseMotionMsg:
		if !s.pressed {
			return nil, false
		}
		m := msg.Mouse()
		dx, dy := float64(m.X-s.pressX), float64(m.Y-s.pressY)
		if !s.ctrl.Dragging() {
			if !slider.Claims(dx, dy) {
				return nil, false
			}
			s.ctrl.Begin()
		}
		s.ctrl.Move(dx)
		return s.tick(), true

	case tea.MouseReleaseMsg:
		s.pressed = false
		if !s.ctrl.Dragging() {
			return nil, false
		}
		s.ctrl.End()
		return s.tick(), true
	}
	return nil, false
}

// tick schedules the next frame unless one is already pending.
func (s *Slider) tick() tea.Cmd {
	if s.ticking || !s.ctrl.Animating() {
		return nil
	}
	s.ticking = true
	id := s.id
	return tea.Tick(sliderFrame, func(time.Time) tea.Msg { return SliderFrameMsg{ID: id} })
}

// View renders the track with the thumb at its animated position.
func (s *Slider) View() string {
	st := s.ctrl.State()
	width := int(st.TrackWidth)
	if width <= 0 {
		return ""
	}
	thumbAt := s.thumbColumn()

	thumb := "●"
	if st.Scale > (1+slider.ActiveScale)/2 {
		thumb = "⬤"
	}

	fill, rest := strings.Repeat("━", thumbAt), strings.Repeat("─", width-thumbAt-1)
	s.plain = fill + thumb + rest
	line := theme.SliderFill.Render(fill) +
		theme.SliderThumb.Render(thumb) +
		theme.SliderTrack.Render(rest)

	tr := s.ctrl.Track()
	minLabel := fmt.Sprintf("%d yr", tr.Min)
	maxLabel := fmt.Sprintf("%d yrs", tr.Max)
	gap := max(1, width-len(minLabel)-len(maxLabel))
	labels := theme.Hint.Render(minLabel + strings.Repeat(" ", gap) + maxLabel)
	return line + "\n" + labels
}
