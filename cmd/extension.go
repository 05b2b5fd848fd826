package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ExtensionPrefix prefixes the external binaries implementing navdash subcommands.
const ExtensionPrefix = "navdash-"

// RunExtension attempts to find and execute an external navdash-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The resolved configuration is passed to the extension as NAVDASH_* environment
// variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), cfg.Environ()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
