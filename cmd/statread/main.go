package main

import (
	"errors"
	"fmt"
	"os"

	"statread/internal/app"
	"statread/internal/logging"
)

// main is the entry point for the statread command.
func main() {
	runner := app.NewAppRunner()

	if err := runner.Run(os.Args[1:]); err != nil {
		if errors.Is(err, app.ErrUsage) || errors.Is(err, app.ErrConfigNotFound) {
			fmt.Fprintln(os.Stderr, "")
			runner.Usage(os.Stderr)
		}

		// Make sure the failure is visible even if the configured level
		// would have suppressed it.
		if logging.GetLevel() < logging.Error {
			logging.SetLevel(logging.Error)
		}
		logging.Logf(logging.Error, "Run failed: %v", err)
		os.Exit(1)
	}

	logging.Logf(logging.Info, "Done.")
}
