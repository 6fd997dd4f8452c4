// Command taxonomy compiles event-taxonomy repositories, diffs resolved
// schemas, and validates schema changes for backward compatibility.
package main

import (
	"errors"
	"fmt"
	"os"
)

// errFindings marks a run that completed but found compatibility problems.
var errFindings = errors.New("validation findings")

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
