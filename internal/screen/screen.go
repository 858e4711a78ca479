package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/finwise/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Leaver is implemented by screens that need to react to being closed with
// Esc, e.g. to record an abandoned lesson. The returned command runs after
// the screen is popped.
type Leaver interface {
	Leave() tea.Cmd
}

// InputCapturer is implemented by screens with focused text inputs. While
// Capturing is true the app does not treat printable keys as shortcuts.
type InputCapturer interface {
	Capturing() bool
}

// StatusChangedMsg asks the app to refresh the header status.
type StatusChangedMsg struct{}
