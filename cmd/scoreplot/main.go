// Command scoreplot compiles scoring formulas and samples them as curves.
//
// Usage:
//
//	scoreplot plot 'recip(price, 4, 4, 0)' --field price --start 0 --end 10
//	scoreplot plot 'sum(x, 1)' --format table
//	scoreplot ops
//	scoreplot check                # run the built-in regression cases
//	scoreplot check cases.yaml     # run cases from a file
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return CLIExitError
	}
	return CLIExitSuccess
}
