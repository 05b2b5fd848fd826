package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navdash"
	"github.com/google/subcommands"
)

type homeCmd struct {
	username string
	role     string
}

func (*homeCmd) Name() string     { return "home" }
func (*homeCmd) Synopsis() string { return "display the dashboard home page" }
func (*homeCmd) Usage() string {
	return `navdash home [-username <name>] [-role <role>]

  Greets the signed in user. The user is read from the stored session
  token when it carries user claims, otherwise from the flags.
`
}

func (c *homeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "Username greeted when the session token carries none.")
	f.StringVar(&c.role, "role", "", "Role of the user when the session token carries none.")
}

func (c *homeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	defer a.close()

	u := a.currentUser(navdash.User{Username: c.username, Role: c.role})
	if u.Username == "" {
		return failf("not signed in, run 'navdash login' or pass -username")
	}
	(&router{app: a, username: u.Username}).Navigate(a.cfg.DashboardRoute)
	return subcommands.ExitSuccess
}
