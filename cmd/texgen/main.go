// Package main is the entry point for the texgen CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/texgen/internal/cli"
	"github.com/yaklabco/texgen/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			// Failures carrying an exit code were already logged.
			return exitErr.Code
		}
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		return cli.ExitInvalidUsage
	}

	return cli.ExitSuccess
}
