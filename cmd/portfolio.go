package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/navdash"
	"github.com/etnz/navdash/renderer"
	"github.com/etnz/navdash/viewer"
	"github.com/google/subcommands"
)

type portfolioCmd struct {
	id          int64
	interactive bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "browse the portfolios and their NAV history" }
func (*portfolioCmd) Usage() string {
	return `navdash portfolio [-id <portfolio id>] [-i]

  Lists the portfolios of the signed in user. With -id, displays the NAV
  history of that portfolio instead.

  With -i (the default when stdin is a terminal) the viewer stays open and
  reads commands:
    <n>     view the details of the n-th portfolio of the list
    b       back to the portfolio list
    a       add a portfolio
    e <n>   edit the n-th portfolio
    r       reload the list
    q       quit
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Display the NAV history of this portfolio id.")
	f.BoolVar(&c.interactive, "i", false, "Keep the viewer open and read commands from stdin.")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	defer a.close()

	v := viewer.New(a.client, a.logger)
	// failures are logged by the viewer, the list just stays empty.
	_ = v.Load(ctx)

	if c.id != 0 {
		p, ok := v.Find(c.id)
		if !ok {
			return failf("no portfolio with id %d", c.id)
		}
		if err := v.ViewDetails(ctx, p); err != nil {
			return failf("cannot fetch portfolio %d: %v", c.id, err)
		}
		printMarkdown(renderer.ViewerMarkdown(v.View(), a.cfg.Currency))
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.ViewerMarkdown(v.View(), a.cfg.Currency))
	if f, ok := stdin.(*os.File); !c.interactive && !(ok && isTerminal(f)) {
		return subcommands.ExitSuccess
	}
	if err := browse(ctx, v, stdin, a.cfg.Currency); err != nil {
		return failf("%v", err)
	}
	return subcommands.ExitSuccess
}

// errQuit ends the browse loop.
var errQuit = errors.New("quit")

// browse runs the viewer commands read from in until q or the end of input.
func browse(ctx context.Context, v *viewer.Viewer, in io.Reader, currency string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		err := step(ctx, v, scanner.Text(), currency)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// step executes a single viewer command.
func step(ctx context.Context, v *viewer.Viewer, line, currency string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	show := func() { printMarkdown(renderer.ViewerMarkdown(v.View(), currency)) }

	switch fields[0] {
	case "q", "quit":
		return errQuit
	case "b", "back":
		v.Back()
		show()
	case "r", "reload":
		// failures are logged and keep the previous list.
		_ = v.Load(ctx)
		show()
	case "a", "add":
		fmt.Fprintln(os.Stderr, v.Add())
	case "e", "edit":
		if len(fields) < 2 {
			return errors.New("usage: e <n>")
		}
		p, err := nth(v, fields[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, v.Edit(p))
	default:
		p, err := nth(v, fields[0])
		if err != nil {
			return err
		}
		// a failed fetch keeps the list displayed.
		_ = v.ViewDetails(ctx, p)
		show()
	}
	return nil
}

// nth returns the portfolio at the 1-based position s of the list.
func nth(v *viewer.Viewer, s string) (p navdash.Portfolio, err error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return p, fmt.Errorf("unknown command %q", s)
	}
	list := v.View().Portfolios
	if n < 1 || n > len(list) {
		return p, fmt.Errorf("no portfolio number %d", n)
	}
	return list[n-1], nil
}
