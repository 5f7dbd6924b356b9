// Package runner orchestrates one compilation: load and decode the
// document, build the substitution tables, parse, and hand the tree to
// a backend.
package runner

// Options controls a compilation run.
type Options struct {
	// Input is the path of the document to compile.
	Input string

	// Output overrides the backend's derived output path.
	Output string

	// Backend names the registered backend to generate with.
	// Defaults to "latex".
	Backend string

	// ConfigPath is an explicit settings file. Empty means the default
	// locations are probed.
	ConfigPath string

	// MethodDirs are extra directories searched for input-method
	// description files, before the built-in ones.
	MethodDirs []string
}

// DefaultBackend is used when Options.Backend is empty.
const DefaultBackend = "latex"

func (o Options) effectiveBackend() string {
	if o.Backend == "" {
		return DefaultBackend
	}
	return o.Backend
}
