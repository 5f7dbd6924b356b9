package latex

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/backend"
	"github.com/yaklabco/texgen/pkg/fsutil"
	"github.com/yaklabco/texgen/pkg/safefilename"
)

// writeOutput writes the assembled document. Without an explicit
// output path the destination is derived from the input, and an
// existing file there is only replaced when it carries the generation
// marker; otherwise a numbered sibling is chosen.
func writeOutput(ctx context.Context, r *backend.Run, doc *ast.Document) error {
	out := r.Opts.OutputPath
	if out == "" {
		out = derivedPath(r.Opts.InputPath, doc)
		if handWritten(out) {
			unique, err := fsutil.UniquePath(out)
			if err != nil {
				return err
			}
			r.Logger().Warn("output exists and is not generated, writing elsewhere",
				"wanted", out, "using", unique)
			out = unique
		}
	}

	if err := fsutil.WriteAtomic(ctx, out, []byte(r.TakeOutput()), 0); err != nil {
		return err
	}
	r.OutputPath = out
	return nil
}

// derivedPath picks a destination when none was configured. With an
// input path the extension is swapped; without one, as in programmatic
// use, the name comes from the document title, encoded so that any
// title yields a portable filename.
func derivedPath(input string, doc *ast.Document) string {
	if input != "" {
		return fsutil.ReplaceExt(input, ".tex")
	}

	title := "document"
	found := false
	ast.Walk(doc, func(n ast.Node) bool {
		if found {
			return false
		}
		if n.Kind() != ast.KindHeading {
			return true
		}
		if t := strings.TrimSpace(n.Text()); t != "" {
			title = t
			found = true
		}
		return false
	})
	return safefilename.Encode(title) + ".tex"
}

// handWritten reports whether path exists and does not start with the
// generation marker.
func handWritten(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return true
	}
	return scanner.Text() != marker
}
