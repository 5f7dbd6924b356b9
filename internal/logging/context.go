package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// ctxKey keys the run logger in a context. Each compilation carries its
// own logger (stderr, logfile, or discard depending on the CLI flags),
// so library code like the runner never touches the process default.
type ctxKey struct{}

// WithLogger attaches the compilation's logger to ctx.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached to ctx, or the package
// default when none was attached.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
