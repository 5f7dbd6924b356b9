package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texgen/pkg/ast"
)

// FormatDiagnostic formats a single parse diagnostic for terminal
// output. sourceLine, when non-empty, is the original source line the
// diagnostic points into and is rendered with a caret.
func (s *Styles) FormatDiagnostic(diag ast.Diagnostic, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(diag.Position.URL),
		diag.Position.Line,
		diag.Position.Column+1,
	)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
	))

	if sourceLine != "" {
		builder.WriteString(s.formatSourceContext(sourceLine, diag.Position.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev ast.Severity) string {
	if sev == ast.SeverityError {
		return s.Error.Render("error")
	}
	return s.Warning.Render("warning")
}

// formatSourceContext renders the source line with a caret under the
// offending column.
func (s *Styles) formatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(strings.TrimRight(line, "\r\n")) + "\n")

	if column >= 0 && column <= len(line) {
		builder.WriteString(indent + strings.Repeat(" ", column) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// SourceLine extracts the 1-based line number from text, for
// diagnostic context.
func SourceLine(text string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
