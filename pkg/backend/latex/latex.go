// Package latex implements the LaTeX backend. It renders the document
// body while walking the tree, then assembles the preamble from what
// the body turned out to need and writes the result next to the input.
package latex

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/backend"
	"github.com/yaklabco/texgen/pkg/langdetect"
	"github.com/yaklabco/texgen/pkg/settings"
)

func init() {
	backend.Register(&LaTeX{})
}

// marker is the first line of every file this backend writes. Files
// without it are presumed hand-written and are never overwritten.
const marker = "% Generated by texgen; do not edit."

// LaTeX renders documents as standalone LaTeX files.
type LaTeX struct{}

func (*LaTeX) Name() string        { return "latex" }
func (*LaTeX) Description() string { return "standalone LaTeX document" }

// RegisterDefaults contributes the latex.* settings keys.
func (*LaTeX) RegisterDefaults(st *settings.Store) error {
	defaults := map[string]any{
		"latex.documentclass": "article",
		"latex.paper":         "a4paper",
		"latex.fontsize":      11,
		"latex.babel":         "",
	}
	for key, value := range defaults {
		if err := st.SetDefault(key, value); err != nil {
			return err
		}
	}
	return nil
}

// state is the per-run rendering state. Strategies is called once per
// run, so the closures below share one fresh instance each time.
type state struct {
	numbers backend.SectionNumbers
}

func (*LaTeX) Strategies() map[ast.Kind]backend.Strategy {
	st := &state{}

	return map[ast.Kind]backend.Strategy{
		ast.KindSection: func(r *backend.Run, n ast.Node) error {
			st.numbers.Enter(n.(*ast.Section))
			return r.Children(n)
		},
		ast.KindHeading: func(r *backend.Run, n ast.Node) error {
			return st.heading(r, n)
		},
		ast.KindParagraph: func(r *backend.Run, n ast.Node) error {
			if err := r.Children(n); err != nil {
				return err
			}
			r.Emit("\n\n")
			return nil
		},
		ast.KindText: func(r *backend.Run, n ast.Node) error {
			r.Emit(escape(n.Text()))
			return nil
		},
		ast.KindEmphasis: func(r *backend.Run, n ast.Node) error {
			r.Emit(`\emph{`)
			if err := r.Children(n); err != nil {
				return err
			}
			r.Emit(`}`)
			return nil
		},
		ast.KindHyperlink: func(r *backend.Run, n ast.Node) error {
			r.Emit(`\url{` + escapeURL(n.(*ast.Hyperlink).URL) + `}`)
			return nil
		},
		ast.KindMathSpan: func(r *backend.Run, n ast.Node) error {
			r.Emit(`$` + n.(*ast.MathSpan).Formula + `$`)
			return nil
		},
		ast.KindCodeSpan: func(r *backend.Run, n ast.Node) error {
			return st.codeSpan(r, n.(*ast.CodeSpan))
		},
	}
}

// sectioning commands by nesting level.
var sectionCommands = []string{
	`\section`, `\subsection`, `\subsubsection`, `\paragraph`, `\subparagraph`,
}

func (st *state) heading(r *backend.Run, n ast.Node) error {
	level := n.Parent().(*ast.Section).Level
	command := sectionCommands[min(level, len(sectionCommands)-1)]

	if st.numbers.Auto() {
		r.Emit(command + `{`)
	} else {
		// Explicit numbers in the source override LaTeX's counters.
		r.Emit(command + `*{` + st.numbers.Current() + ` `)
	}
	if err := r.Children(n); err != nil {
		return err
	}
	r.Emit("}\n\n")
	return nil
}

func (st *state) codeSpan(r *backend.Run, span *ast.CodeSpan) error {
	if strings.Contains(span.Code, "\n") {
		code := strings.Trim(span.Code, "\n")
		if lang := langdetect.Detect([]byte(code)); lang != "" {
			r.Emit("\\begin{lstlisting}[language=" + lang + "]\n")
		} else {
			r.Emit("\\begin{lstlisting}\n")
		}
		r.Emit(code)
		r.Emit("\n\\end{lstlisting}\n")
		return nil
	}

	delim, ok := pickDelimiter(span.Code)
	if !ok {
		// Every candidate delimiter occurs in the code; fall back to
		// escaped text.
		r.Emit(`\texttt{` + escape(span.Code) + `}`)
		return nil
	}
	r.Emit(`\lstinline` + string(delim) + span.Code + string(delim))
	return nil
}

// pickDelimiter finds a delimiter character that does not occur in
// code, for \lstinline.
func pickDelimiter(code string) (byte, bool) {
	for _, c := range []byte(`|!"#+/@-`) {
		if !strings.ContainsRune(code, rune(c)) {
			return c, true
		}
	}
	return 0, false
}

// Finalize wraps the rendered body in a preamble derived from the run
// and writes the document.
func (*LaTeX) Finalize(ctx context.Context, r *backend.Run, doc *ast.Document) error {
	body := r.TakeOutput()

	r.Emit(marker + "\n")
	r.Emit(preamble(r.Opts.Settings, doc, bodyNeeds(body)))
	r.Emit("\\begin{document}\n\n")
	r.Emit(body)
	r.Emit("\\end{document}\n")

	return writeOutput(ctx, r, doc)
}

// needs captures which optional packages the rendered body requires.
type needs struct {
	url      bool
	listings bool
}

// bodyNeeds recovers package requirements from the rendered body. The
// strategy state is gone by Finalize time (Strategies and Finalize see
// different receivers), so the body itself is the source of truth.
func bodyNeeds(body string) needs {
	return needs{
		url:      strings.Contains(body, `\url{`),
		listings: strings.Contains(body, `\lstinline`) || strings.Contains(body, `\begin{lstlisting}`),
	}
}

func preamble(st *settings.Store, doc *ast.Document, need needs) string {
	var sb strings.Builder

	class := st.String("latex.documentclass", "article")
	paper := st.String("latex.paper", "a4paper")
	fontsize := st.Int("latex.fontsize", 11)
	fmt.Fprintf(&sb, "\\documentclass[%dpt,%s]{%s}\n", fontsize, paper, class)

	sb.WriteString("\\usepackage[T1]{fontenc}\n")
	sb.WriteString("\\usepackage[utf8]{inputenc}\n")

	babel := st.String("latex.babel", "")
	if babel == "" {
		babel = babelName(doc.CurrentLanguage())
	}
	fmt.Fprintf(&sb, "\\usepackage[%s]{babel}\n", babel)

	if need.url {
		sb.WriteString("\\usepackage{url}\n")
	}
	if need.listings {
		sb.WriteString("\\usepackage{listings}\n")
		sb.WriteString("\\lstset{basicstyle=\\ttfamily\\small}\n")
	}

	sb.WriteString("\n")
	return sb.String()
}
