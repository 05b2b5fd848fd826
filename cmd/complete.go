package cmd

import (
	"flag"

	"github.com/etnz/navdash/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion. Subcommands and flags
// are read from commander and from the global flag set.
func Completion(commander *subcommands.Commander, global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(global),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: predictFlags(fs)}
		if c.Name() == "topic" {
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(append(topics, "readme"))
			}
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

// predictFlags predicts the flags of fs: nothing after a boolean, files after a path.
func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case isBoolFlag(f):
			flags[f.Name] = predict.Nothing
		case f.Name == "config":
			flags[f.Name] = predict.Files("*.yaml")
		case f.Name == "env-file" || f.Name == "store":
			flags[f.Name] = predict.Files("*")
		case f.Name == "log-level":
			flags[f.Name] = predict.Set{"debug", "info", "warn", "error"}
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
