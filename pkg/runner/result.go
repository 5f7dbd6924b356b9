package runner

import (
	"time"

	"github.com/yaklabco/texgen/pkg/ast"
)

// Stats captures aggregate information about a run.
type Stats struct {
	// Nodes is the number of nodes in the parsed document tree.
	Nodes int

	// Errors and Warnings count the parse diagnostics.
	Errors   int
	Warnings int

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// Result is the outcome of one compilation.
type Result struct {
	// OutputPath is where the backend wrote its output. Empty when
	// generation was skipped because of errors.
	OutputPath string

	// Diagnostics are the parse problems, in discovery order.
	Diagnostics []ast.Diagnostic

	Stats Stats
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.Errors > 0
}

// HasWarnings reports whether any diagnostic is a warning.
func (r *Result) HasWarnings() bool {
	return r != nil && r.Stats.Warnings > 0
}
