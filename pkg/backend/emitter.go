// Package backend defines the output side of texgen: emitters that
// accumulate generated text, the backend registry, and the Run type
// that walks a finished document tree through a backend's per-kind
// strategies.
package backend

import "strings"

// Emitter accumulates generated output. Backends emit into it while
// walking the tree and may take the accumulated text back out, which is
// how multi-pass assembly (body first, preamble later) works.
type Emitter interface {
	Emit(s string)

	// TakeOutput returns everything emitted since the last call and
	// resets the emitter.
	TakeOutput() string
}

// Buffered is the standard in-memory Emitter. Backends embed or use it
// directly unless they stream somewhere special.
type Buffered struct {
	sb strings.Builder
}

func (b *Buffered) Emit(s string) {
	b.sb.WriteString(s)
}

func (b *Buffered) TakeOutput() string {
	out := b.sb.String()
	b.sb.Reset()
	return out
}

// Len returns the number of bytes currently buffered.
func (b *Buffered) Len() int { return b.sb.Len() }
