package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/texgen/internal/logging"
	"github.com/yaklabco/texgen/internal/ui/pretty"
	"github.com/yaklabco/texgen/pkg/backend"
	"github.com/yaklabco/texgen/pkg/runner"
	"github.com/yaklabco/texgen/pkg/settings"
	"github.com/yaklabco/texgen/pkg/source"

	// Register the built-in backends via init().
	_ "github.com/yaklabco/texgen/pkg/backend/latex"
	_ "github.com/yaklabco/texgen/pkg/backend/text"
)

// ExitError carries the process exit code for a failed run. main
// unwraps it; anything else is an internal error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func runCompile(cmd *cobra.Command, input string, flags *compileFlags) error {
	logger, cleanup, err := buildLogger(flags)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	result, err := runner.Compile(ctx, runner.Options{
		Input:      input,
		Output:     flags.output,
		Backend:    flags.backendID,
		ConfigPath: flags.configPath,
		MethodDirs: flags.methodDirs,
	})
	if err != nil {
		logger.Error("compilation failed", logging.FieldError, err)
		return &ExitError{Code: exitCodeForError(err), Err: err}
	}

	if !flags.quiet {
		report(cmd, input, result, flags)
	}

	if code := ExitCodeFromResult(result, flags.strict); code != ExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}

// report renders diagnostics and the run summary to stdout.
func report(cmd *cobra.Command, input string, result *runner.Result, flags *compileFlags) {
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(flags.color, out))

	var text string
	if len(result.Diagnostics) > 0 {
		// Reload for context lines; diagnostics are rare enough that a
		// second read is fine.
		text, _, _ = source.LoadFile(input)
	}
	for _, diag := range result.Diagnostics {
		line := pretty.SourceLine(text, diag.Position.Line)
		fmt.Fprint(out, styles.FormatDiagnostic(diag, line))
	}

	fmt.Fprint(out, styles.FormatSummary(result))
}

// buildLogger assembles the run logger from the logging flags. The
// returned cleanup closes the logfile, when one is open.
func buildLogger(flags *compileFlags) (logger *log.Logger, cleanup func(), err error) {
	level := "info"
	if flags.debug {
		level = "debug"
	}

	switch {
	case flags.nolog:
		return logging.NewDiscard(), func() {}, nil
	case flags.logfile != "":
		fileLogger, closer, err := logging.NewFile(flags.logfile, level)
		if err != nil {
			return nil, nil, fmt.Errorf("open logfile: %w", err)
		}
		return fileLogger, func() { _ = closer.Close() }, nil
	default:
		return logging.New(level), func() {}, nil
	}
}

// exitCodeForError classifies environmental failures.
func exitCodeForError(err error) int {
	var fileErr *source.FileError
	var encErr *source.EncodingError
	var lvErr *source.LocalVariablesError

	switch {
	case errors.Is(err, backend.ErrUnknown):
		return ExitInvalidUsage
	case errors.As(err, &lvErr),
		errors.Is(err, settings.ErrUnknownKey),
		errors.Is(err, settings.ErrTypeMismatch),
		errors.Is(err, settings.ErrNotFound):
		return ExitConfigError
	case errors.As(err, &encErr), errors.As(err, &fileErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
