// Package text implements the plain-text backend. It renders the
// document as readable text with minimal markup and exists mostly as
// the reference for how little a backend has to do.
package text

import (
	"context"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/backend"
	"github.com/yaklabco/texgen/pkg/fsutil"
)

func init() {
	backend.Register(&Text{})
}

// Text renders documents as plain text.
type Text struct{}

func (*Text) Name() string        { return "text" }
func (*Text) Description() string { return "plain text with minimal markup" }

func (*Text) Strategies() map[ast.Kind]backend.Strategy {
	numbers := &backend.SectionNumbers{}

	return map[ast.Kind]backend.Strategy{
		ast.KindSection: func(r *backend.Run, n ast.Node) error {
			numbers.Enter(n.(*ast.Section))
			return r.Children(n)
		},
		ast.KindHeading: func(r *backend.Run, n ast.Node) error {
			r.Emit(numbers.Current() + " ")
			if err := r.Children(n); err != nil {
				return err
			}
			r.Emit("\n\n")
			return nil
		},
		ast.KindParagraph: func(r *backend.Run, n ast.Node) error {
			if err := r.Children(n); err != nil {
				return err
			}
			r.Emit("\n\n")
			return nil
		},
		ast.KindEmphasis: func(r *backend.Run, n ast.Node) error {
			r.Emit("*")
			if err := r.Children(n); err != nil {
				return err
			}
			r.Emit("*")
			return nil
		},
		ast.KindHyperlink: func(r *backend.Run, n ast.Node) error {
			r.Emit("<" + n.(*ast.Hyperlink).URL + ">")
			return nil
		},
	}
}

func (*Text) Finalize(ctx context.Context, r *backend.Run, doc *ast.Document) error {
	out := r.Opts.OutputPath
	if out == "" {
		out = fsutil.ReplaceExt(r.Opts.InputPath, ".txt")
	}
	if err := fsutil.WriteAtomic(ctx, out, []byte(r.TakeOutput()), 0); err != nil {
		return err
	}
	r.OutputPath = out
	return nil
}
