package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/settings"
)

// Strategy processes one node kind during a Run. Strategies emit output
// through the run and descend into children explicitly via
// Run.Children.
type Strategy func(r *Run, n ast.Node) error

// Backend turns a document tree into output in one concrete format.
// Implementations register themselves in an init function.
type Backend interface {
	// Name is the identifier used on the command line.
	Name() string

	// Description is a one-line summary for listings.
	Description() string

	// Strategies returns the per-kind node processors. Kinds without a
	// strategy get the default treatment: leaves emit their text,
	// containers descend.
	Strategies() map[ast.Kind]Strategy

	// Finalize assembles the run's output and writes it to its
	// destination. It is called exactly once, after the whole tree has
	// been processed.
	Finalize(ctx context.Context, r *Run, doc *ast.Document) error
}

// Configurable is implemented by backends that contribute settings
// defaults. RegisterDefaults runs before the store is closed, so the
// keys it registers become the legal override surface.
type Configurable interface {
	RegisterDefaults(st *settings.Store) error
}

var registry = map[string]Backend{}

// Register adds a backend to the global registry. It panics on
// duplicate names and is meant to be called from init functions.
func Register(b Backend) {
	if _, dup := registry[b.Name()]; dup {
		panic(fmt.Sprintf("backend: duplicate registration of %q", b.Name()))
	}
	registry[b.Name()] = b
}

// ErrUnknown is wrapped by Lookup failures, for errors.Is.
var ErrUnknown = errors.New("unknown backend")

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknown, name, Names())
	}
	return b, nil
}

// Names returns the registered backend names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
