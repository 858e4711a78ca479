package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/finwise/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = theme.Body.Render(p.Label) + "  "
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}
	barWidth := max(4, p.Width-lipgloss.Width(result)-percentWidth)
	pct := min(1, max(0, p.Percent))
	filled := int(float64(barWidth) * pct)

	result += theme.SliderFill.Render(strings.Repeat("█", filled)) +
		theme.SliderTrack.Render(strings.Repeat("░", barWidth-filled))

	if p.ShowPercent {
		result += theme.Hint.Italic(false).Render(fmt.Sprintf("  %d%%", int(pct*100)))
	}
	return result
}

// PageDots renders one dot per page with the current page highlighted.
func PageDots(current, total int) string {
	dots := make([]string, total)
	for i := range dots {
		switch {
		case i == current:
			dots[i] = theme.Selected.Render("●")
		case i < current:
			dots[i] = theme.SliderFill.Render("•")
		default:
			dots[i] = theme.SliderTrack.Render("•")
		}
	}
	return strings.Join(dots, " ")
}
