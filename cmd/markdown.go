package cmd

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders md for the terminal, or as plain text when
// stdout is not one.
func renderMarkdown(md string) string {
	style := glamour.WithStylePath("notty")
	if isTerminal(os.Stdout) {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// colorize wraps s in an ANSI colour when stdout is a terminal.
func colorize(code, s string) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}
