package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/mfbench"
)

// Exit codes for different failure modes
const (
	ExitSuccess  = 0 // Command completed
	ExitNotFound = 1 // Benchmark, task, or recorded observation not found
	ExitError    = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		if errors.Is(err, mfbench.ErrNotFound) {
			os.Exit(ExitNotFound)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
