package pretty

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/yaklabco/texgen/pkg/runner"
)

// maxSummaryWidth caps the separator line on very wide terminals.
const maxSummaryWidth = 80

// FormatSummary renders the end-of-run summary for a compilation
// result.
func (s *Styles) FormatSummary(result *runner.Result) string {
	var builder strings.Builder

	builder.WriteString(s.Dim.Render(strings.Repeat("─", summaryWidth())) + "\n")

	switch {
	case result.HasErrors():
		builder.WriteString(fmt.Sprintf("%s %d error(s), %d warning(s); no output written\n",
			s.Failure.Render("✗"),
			result.Stats.Errors, result.Stats.Warnings))
	case result.HasWarnings():
		builder.WriteString(fmt.Sprintf("%s wrote %s with %d warning(s)\n",
			s.Warning.Render("!"),
			s.Bold.Render(result.OutputPath),
			result.Stats.Warnings))
	default:
		builder.WriteString(fmt.Sprintf("%s wrote %s\n",
			s.Success.Render("✓"),
			s.Bold.Render(result.OutputPath)))
	}

	builder.WriteString(s.Dim.Render(fmt.Sprintf("  %d nodes in %s",
		result.Stats.Nodes, result.Stats.Duration.Round(time.Millisecond))) + "\n")

	return builder.String()
}

func summaryWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > maxSummaryWidth {
		return maxSummaryWidth
	}
	return width
}
