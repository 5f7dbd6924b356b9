package latex_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/backend"
	"github.com/yaklabco/texgen/pkg/settings"
	"github.com/yaklabco/texgen/pkg/source"
	"github.com/yaklabco/texgen/pkg/subst"
)

func parseDoc(t *testing.T, raw string) *ast.Document {
	t.Helper()

	buf, issues := source.NewFromRaw(raw, "doc.tg", subst.EmptySet())
	require.Empty(t, issues)

	doc := ast.NewDocument(&ast.Diagnostics{})
	require.NoError(t, doc.Parse(buf))
	return doc
}

// generate runs the latex backend over raw and returns the written file.
func generate(t *testing.T, raw string, opts backend.Options) string {
	t.Helper()

	doc := parseDoc(t, raw)

	b, err := backend.Lookup("latex")
	require.NoError(t, err)

	if opts.OutputPath == "" && opts.InputPath == "" {
		opts.OutputPath = filepath.Join(t.TempDir(), "doc.tex")
	}

	out, err := backend.Generate(context.Background(), b, doc, opts)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	return string(content)
}

func TestGenerateDocumentShell(t *testing.T) {
	t.Parallel()

	content := generate(t, "Hello world.\n", backend.Options{})

	lines := strings.Split(content, "\n")
	assert.Equal(t, "% Generated by texgen; do not edit.", lines[0])
	assert.Contains(t, content, `\documentclass[11pt,a4paper]{article}`)
	assert.Contains(t, content, `\usepackage[T1]{fontenc}`)
	assert.Contains(t, content, `\usepackage[utf8]{inputenc}`)
	assert.Contains(t, content, `\usepackage[english]{babel}`)
	assert.Contains(t, content, "\\begin{document}\n\nHello world.\n")
	assert.True(t, strings.HasSuffix(content, "\\end{document}\n"))

	assert.NotContains(t, content, `\usepackage{url}`)
	assert.NotContains(t, content, `\usepackage{listings}`)
}

func TestGenerateSettingsOverride(t *testing.T) {
	t.Parallel()

	st := settings.NewStore()
	b, err := backend.Lookup("latex")
	require.NoError(t, err)
	require.NoError(t, b.(backend.Configurable).RegisterDefaults(st))
	st.Close()
	require.NoError(t, st.Set("latex.documentclass", "report"))
	require.NoError(t, st.Set("latex.fontsize", 12))
	require.NoError(t, st.Set("latex.babel", "french"))

	content := generate(t, "Bonjour.\n", backend.Options{Settings: st})
	assert.Contains(t, content, `\documentclass[12pt,a4paper]{report}`)
	assert.Contains(t, content, `\usepackage[french]{babel}`)
}

func TestGenerateAutoNumberedHeading(t *testing.T) {
	t.Parallel()

	content := generate(t, "#. Intro\n====\n\n#.#. Sub\n====\n\nx\n", backend.Options{})
	assert.Contains(t, content, "\\section{Intro}\n")
	assert.Contains(t, content, "\\subsection{Sub}\n")
}

func TestGenerateExplicitNumberedHeading(t *testing.T) {
	t.Parallel()

	content := generate(t, "3. Results\n====\n\nx\n", backend.Options{})
	assert.Contains(t, content, "\\section*{3. Results}\n")
}

func TestGenerateDeepHeadingLevels(t *testing.T) {
	t.Parallel()

	raw := "#. A\n====\n\n#.#. B\n====\n\n#.#.#. C\n====\n\n#.#.#.#. D\n====\n\n#.#.#.#.#. E\n====\n\n#.#.#.#.#.#. F\n====\n\nx\n"
	content := generate(t, raw, backend.Options{})

	assert.Contains(t, content, `\section{A}`)
	assert.Contains(t, content, `\subsection{B}`)
	assert.Contains(t, content, `\subsubsection{C}`)
	assert.Contains(t, content, `\paragraph{D}`)
	assert.Contains(t, content, `\subparagraph{E}`)
	assert.Contains(t, content, `\subparagraph{F}`, "levels below the last command reuse it")
}

func TestGenerateEmphasisAndMath(t *testing.T) {
	t.Parallel()

	content := generate(t, "see _this_ and {x^2} now\n", backend.Options{})
	assert.Contains(t, content, `\emph{this}`)
	assert.Contains(t, content, `$x^2$`, "formulas are emitted raw")
}

func TestGenerateHyperlink(t *testing.T) {
	t.Parallel()

	content := generate(t, "see <https://e.co/a_b> now\n", backend.Options{})
	assert.Contains(t, content, `\url{https://e.co/a_b}`)
	assert.Contains(t, content, `\usepackage{url}`)
}

func TestGenerateEscapesText(t *testing.T) {
	t.Parallel()

	content := generate(t, "50% of $5 is a\\_steal #1\n", backend.Options{})
	assert.Contains(t, content, `50\% of \$5 is a\_steal \#1`)
}

func TestGenerateInlineCode(t *testing.T) {
	t.Parallel()

	content := generate(t, "run ```rm -rf /``` to clean\n", backend.Options{})
	assert.Contains(t, content, `\lstinline|rm -rf /|`)
	assert.Contains(t, content, `\usepackage{listings}`)
	assert.Contains(t, content, `\lstset{basicstyle=\ttfamily\small}`)
}

func TestGenerateCodeListing(t *testing.T) {
	t.Parallel()

	raw := "example:\n```\npackage main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(1)\n}\n```\n"
	content := generate(t, raw, backend.Options{})
	assert.Contains(t, content, "\\begin{lstlisting}[language=Go]\n")
	assert.Contains(t, content, "func main() {")
	assert.Contains(t, content, "\n\\end{lstlisting}\n")
}

func TestGenerateDerivesNameFromTitle(t *testing.T) {
	t.Chdir(t.TempDir())

	doc := parseDoc(t, "1. My Results\n====\n\nbody\n")
	b, err := backend.Lookup("latex")
	require.NoError(t, err)

	out, err := backend.Generate(context.Background(), b, doc, backend.Options{})
	require.NoError(t, err)
	assert.Equal(t, "{m}y_{r}esults.tex", out)
	assert.FileExists(t, out)
}

func TestGenerateOverwriteProtection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.tg")
	derived := filepath.Join(dir, "doc.tex")

	t.Run("hand-written file is preserved", func(t *testing.T) {
		require.NoError(t, os.WriteFile(derived, []byte("\\documentclass{article}\n"), 0o644))

		doc := parseDoc(t, "fresh\n")
		b, err := backend.Lookup("latex")
		require.NoError(t, err)

		out, err := backend.Generate(context.Background(), b, doc, backend.Options{InputPath: input})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "doc_1.tex"), out)

		original, err := os.ReadFile(derived)
		require.NoError(t, err)
		assert.Equal(t, "\\documentclass{article}\n", string(original))
	})

	t.Run("generated file is replaced", func(t *testing.T) {
		doc := parseDoc(t, "updated\n")
		b, err := backend.Lookup("latex")
		require.NoError(t, err)

		generated := filepath.Join(dir, "doc_1.tex")
		out, err := backend.Generate(context.Background(), b, doc, backend.Options{
			InputPath:  fsReplaceExt(generated),
			OutputPath: "",
		})
		require.NoError(t, err)
		assert.Equal(t, generated, out)

		content, err := os.ReadFile(generated)
		require.NoError(t, err)
		assert.Contains(t, string(content), "updated")
	})
}

// fsReplaceExt maps a .tex path back to the .tg input it would be
// derived from.
func fsReplaceExt(texPath string) string {
	return strings.TrimSuffix(texPath, ".tex") + ".tg"
}
