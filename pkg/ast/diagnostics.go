package ast

import (
	"fmt"

	"github.com/yaklabco/texgen/pkg/source"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a problem found while parsing, anchored to its source
// position. Parsing never aborts on diagnostics; the caller decides
// what they mean for the run.
type Diagnostic struct {
	Severity Severity
	Position source.PositionMarker
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Severity, d.Message)
}

// Diagnostics collects the problems of one parse run.
type Diagnostics struct {
	list []Diagnostic
}

// Errorf records an error at pos.
func (d *Diagnostics) Errorf(pos source.PositionMarker, format string, args ...any) {
	d.list = append(d.list, Diagnostic{
		Severity: SeverityError,
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnf records a warning at pos.
func (d *Diagnostics) Warnf(pos source.PositionMarker, format string, args ...any) {
	d.list = append(d.list, Diagnostic{
		Severity: SeverityWarning,
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// AddIssues converts buffer construction issues into diagnostics.
func (d *Diagnostics) AddIssues(issues []source.Issue) {
	for _, issue := range issues {
		sev := SeverityError
		if issue.Warning {
			sev = SeverityWarning
		}
		d.list = append(d.list, Diagnostic{
			Severity: sev,
			Position: issue.Position,
			Message:  issue.Message,
		})
	}
}

// All returns the recorded diagnostics in the order they were found.
func (d *Diagnostics) All() []Diagnostic { return d.list }

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int { return len(d.list) }

// HasErrors reports whether any recorded diagnostic is an error.
func (d *Diagnostics) HasErrors() bool {
	for _, diag := range d.list {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (d *Diagnostics) Counts() (errors, warnings int) {
	for _, diag := range d.list {
		if diag.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}
