package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders the coach's markdown replies
// for the terminal using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
