package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyz/internal/ui/layout"
)

// Screen is one page of the dashboard.
type Screen interface {
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EngineTickMsg is broadcast to the active screen after every engine tick,
// so screens that cache engine state can refresh it.
type EngineTickMsg struct{}

// EscCapturer is implemented by screens that use Esc themselves while
// CapturesEsc is true, for example to leave a text field.
type EscCapturer interface {
	CapturesEsc() bool
}
