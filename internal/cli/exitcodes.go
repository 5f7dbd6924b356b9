package cli

import "github.com/yaklabco/texgen/pkg/runner"

// Exit codes for texgen.
const (
	// ExitSuccess indicates a clean compilation.
	ExitSuccess = 0

	// ExitParseErrors indicates the document had parse errors and no
	// output was written.
	ExitParseErrors = 1

	// ExitParseWarnings indicates warnings in strict mode.
	ExitParseWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates settings or input-method file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code from a compilation
// result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasErrors():
		return ExitParseErrors
	case strict && result.HasWarnings():
		return ExitParseWarnings
	default:
		return ExitSuccess
	}
}
