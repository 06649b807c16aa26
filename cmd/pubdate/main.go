// cmd/pubdate/main.go
//
// This is the entry point for the pubdate CLI.
// When you run `pubdate` from a project directory, this is what executes.
//
// Flow:
// 1. Load .pubdate/config.yaml (defaults when it is missing)
// 2. Read the dependency table and drop excluded documents
// 3. Build the scheduling plan and hand it to the requested command

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitError carries a non-zero exit status that is not a failure of the
// command itself, e.g. an infeasible schedule.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			fmt.Fprintln(stderr, exit.msg)
			return exit.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
