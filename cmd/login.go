package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/navdash"
	"github.com/etnz/navdash/login"
	"github.com/etnz/navdash/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// stdin provides the interactive input.
var stdin io.Reader = os.Stdin

type loginCmd struct {
	username     string
	showPassword bool
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in and store the session token" }
func (*loginCmd) Usage() string {
	return `navdash login [-u <username>] [-show-password]

  Prompts for the missing credentials, authenticates against the
  authentication service and stores the session token in the local store.
  On success, the dashboard home page is displayed.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username to sign in with. Prompted if empty.")
	f.BoolVar(&c.showPassword, "show-password", false, "Echo the password while typing it.")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	defer a.close()

	in := bufio.NewReader(stdin)
	username := c.username
	if username == "" {
		if username, err = prompt(in, "Username: "); err != nil {
			return failf("cannot read username: %v", err)
		}
	}
	password, err := c.readPassword(in)
	if err != nil {
		return failf("cannot read password: %v", err)
	}

	flow := login.New(a.client, a.store, &router{app: a, username: username}, login.Options{
		TokenKey:       a.cfg.TokenKey,
		DashboardRoute: a.cfg.DashboardRoute,
		Logger:         a.logger,
	})
	flow.SetUsername(username)
	flow.SetPassword(password)
	if c.showPassword {
		flow.TogglePasswordVisibility()
	}

	if err := flow.Submit(ctx); err != nil {
		a.logger.Debug("login submission failed", zap.Error(err))
		printMarkdown(renderer.LoginMarkdown(flow.View()))
		var verr *navdash.ValidationError
		if errors.As(err, &verr) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// readPassword reads the password without echo when stdin is a terminal.
func (c *loginCmd) readPassword(in *bufio.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && !c.showPassword && isTerminal(f) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	return prompt(in, "Password: ")
}

// prompt asks for one line of input on stderr.
func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
