package renderer

import (
	"bytes"
	"strings"

	"github.com/etnz/navdash/login"
	md "github.com/nao1215/markdown"
)

// Labels of the login overlay.
const (
	SignInLabel    = "Sign in"
	SigningInLabel = "Signing in..."
)

const passwordMask = "•"

// LoginMarkdown renders the login overlay. The password is masked unless the flow shows
// it in plain text.
func LoginMarkdown(v login.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Sign in to your account")
	blank(doc)
	if v.Message != "" {
		doc.PlainText(md.Bold(v.Message))
		blank(doc)
	}

	password := strings.Repeat(passwordMask, len([]rune(v.Password)))
	if v.ShowPassword {
		password = v.Password
	}
	doc.BulletList(
		"Username: "+v.Username,
		"Password: "+password,
	)
	blank(doc)

	button := SignInLabel
	if v.Busy() {
		button = SigningInLabel
	}
	doc.PlainText("[" + button + "]")
	return doc.String()
}
