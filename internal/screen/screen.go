package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speaktest/internal/ui/layout"
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

// Disposer is implemented by screens that own in-flight work. Dispose is
// called once when the screen leaves the stack or the program exits;
// results arriving afterwards must be ignored.
type Disposer interface {
	Dispose()
}

// Dispose calls s.Dispose if s implements Disposer.
func Dispose(s Screen) {
	if d, ok := s.(Disposer); ok {
		d.Dispose()
	}
}

// BackgroundMsg marks the result of asynchronous work. The router delivers
// such messages to every screen on the stack, so a screen covered by
// another still receives its own results.
type BackgroundMsg interface {
	tea.Msg
	Background()
}
