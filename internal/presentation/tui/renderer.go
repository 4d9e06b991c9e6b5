package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Renderer turns Markdown into terminal output.
type Renderer func(markdown string) (string, error)

// Plain returns the Markdown untouched.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// NewRenderer returns a glamour renderer when w is an interactive terminal,
// and Plain otherwise so piped output stays greppable.
func NewRenderer(w io.Writer) Renderer {
	if !IsTerminal(w) {
		return Plain
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return Plain
	}
	return r.Render
}

// IsTerminal reports whether w is a TTY.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
