// Package renderer renders the dashboard pages as markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/navdash"
	md "github.com/nao1215/markdown"
)

// HomeMarkdown renders the session panel greeting u.
func HomeMarkdown(u navdash.User) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Welcome, %s!", u.Username))
	blank(doc)
	doc.PlainText("This is your dashboard home page.")
	return doc.String()
}

// blank separates two markdown blocks.
func blank(doc *md.Markdown) { doc.PlainText("") }
