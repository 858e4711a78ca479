package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/router"
	"github.com/abhisek/finwise/internal/screen"
	"github.com/abhisek/finwise/internal/screens/home"
	"github.com/abhisek/finwise/internal/ui/layout"
)

// statusMsg carries a fresh header status.
type statusMsg layout.Status

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    *screen.Services
	status layout.Status
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(svc *screen.Services) AppModel {
	return AppModel{
		router: router.New(home.New(svc)),
		svc:    svc,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadStatus())
}

// loadStatus reads the header status off the UI loop.
func (m AppModel) loadStatus() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		st := layout.Status{User: svc.UserID()}
		if st.User == "" || svc.Tracker == nil {
			return statusMsg(st)
		}
		rec, err := svc.Tracker.Record(context.Background())
		if err != nil {
			svc.Log().Warn("load header status", zap.Error(err))
			return statusMsg(st)
		}
		st.Lessons = rec.DistinctLessons()
		return statusMsg(st)
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case statusMsg:
		m.status = layout.Status(msg)
		return m, nil

	case screen.StatusChangedMsg:
		return m, tea.Batch(m.loadStatus(), m.router.Update(msg))

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, tea.Sequence(router.Pop, statusChanged)
			}
			return m, nil
		case "q":
			if m.router.Depth() == 1 && !m.capturing() {
				return m, tea.Quit
			}
		}
	}

	cmd := m.router.Update(m.toContent(msg))
	return m, cmd
}

// toContent shifts mouse coordinates so screens see them relative to the
// content area below the header, matching what their View returns.
func (m AppModel) toContent(msg tea.Msg) tea.Msg {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		return tea.MouseClickMsg(m.shift(msg.Mouse()))
	case tea.MouseMotionMsg:
		return tea.MouseMotionMsg(m.shift(msg.Mouse()))
	case tea.MouseReleaseMsg:
		return tea.MouseReleaseMsg(m.shift(msg.Mouse()))
	}
	return msg
}

func (m AppModel) shift(mouse tea.Mouse) tea.Mouse {
	mouse.Y -= m.contentTop()
	return mouse
}

// contentTop is the first row of the content area, i.e. the header height.
func (m AppModel) contentTop() int {
	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}
	return lipgloss.Height(layout.RenderHeader(title, m.status, m.width))
}

func statusChanged() tea.Msg { return screen.StatusChangedMsg{} }

// capturing reports whether the active screen owns printable keys.
func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.Capturing()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, svc *screen.Services) error {
	p := tea.NewProgram(newAppModel(svc), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
