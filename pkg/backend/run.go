package backend

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/settings"
)

// Options configures one generation run.
type Options struct {
	// InputPath is the source document, used to derive output names.
	InputPath string

	// OutputPath overrides the derived output destination. Empty means
	// the backend picks one next to the input.
	OutputPath string

	Settings *settings.Store
	Logger   *log.Logger
}

// Run is a single pass of one backend over one document. The strategy
// map is fixed when the run is created, so dispatch is per-run state
// and concurrent runs with different backends never interfere.
type Run struct {
	Emitter

	Opts       Options
	backend    Backend
	strategies map[ast.Kind]Strategy

	// OutputPath is the destination the backend actually wrote to,
	// available after Finalize.
	OutputPath string
}

// NewRun prepares a run of b with opts. A nil logger is replaced with a
// silent one.
func NewRun(b Backend, opts Options) *Run {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Settings == nil {
		opts.Settings = settings.NewStore()
	}
	return &Run{
		Emitter:    &Buffered{},
		Opts:       opts,
		backend:    b,
		strategies: b.Strategies(),
	}
}

// Process dispatches n to its strategy. Kinds without a strategy fall
// back to emitting the text of leaves and descending into containers.
func (r *Run) Process(n ast.Node) error {
	if s, ok := r.strategies[n.Kind()]; ok {
		return s(r, n)
	}
	if len(n.Children()) == 0 {
		r.Emit(n.Text())
		return nil
	}
	return r.Children(n)
}

// Children processes all children of n in order.
func (r *Run) Children(n ast.Node) error {
	for _, c := range n.Children() {
		if err := r.Process(c); err != nil {
			return err
		}
	}
	return nil
}

// Logger returns the run's logger.
func (r *Run) Logger() *log.Logger { return r.Opts.Logger }

// Generate runs backend b over doc and finalizes the output. It
// returns the path the output was written to.
func Generate(ctx context.Context, b Backend, doc *ast.Document, opts Options) (string, error) {
	r := NewRun(b, opts)
	r.Logger().Debug("generating output", "backend", b.Name(), "input", opts.InputPath)

	if err := r.Process(doc); err != nil {
		return "", err
	}
	if err := b.Finalize(ctx, r, doc); err != nil {
		return "", err
	}
	return r.OutputPath, nil
}
