// Package screen defines the contract between the router and the review
// UI's screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/exambank/internal/ui/layout"
)

// Screen is one page of the review UI. The router keeps a stack of them
// and only the top one receives messages.
type Screen interface {
	Init() tea.Cmd

	// Update returns the screen that should replace the receiver on the
	// stack, usually the receiver itself.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between the app's header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens whose footer hints differ
// from the app defaults.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
