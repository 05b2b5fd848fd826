package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// stdout receives the rendered dashboard.
var stdout io.Writer = os.Stdout

// printMarkdown prints md to stdout, styled for the terminal when stdout is one.
func printMarkdown(md string) {
	f, ok := stdout.(*os.File)
	fmt.Fprint(stdout, renderMarkdown(md, ok && isTerminal(f)))
}

func renderMarkdown(md string, styled bool) string {
	if !styled {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func isTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }
