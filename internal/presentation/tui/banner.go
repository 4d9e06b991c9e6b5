package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the CLI banner with a sunset gradient when colour is supported.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _        _             _                             ", "#38bdf8"},
		{" | |_ _ __(_)_ __  _ __ | | __ _ _ __  _ __   ___ _ __ ", "#60a5fa"},
		{" | __| '__| | '_ \\| '_ \\| |/ _` | '_ \\| '_ \\ / _ \\ '__|", "#818cf8"},
		{" | |_| |  | | |_) | |_) | | (_| | | | | | | |  __/ |   ", "#f472b6"},
		{"  \\__|_|  |_| .__/| .__/|_|\\__,_|_| |_|_| |_|\\___|_|   ", "#fb923c"},
		{"            |_|   |_|                                  ", "#facc15"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
