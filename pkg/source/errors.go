package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for Buffer contract violations.
var (
	// ErrOutOfRange is returned when a position lookup is outside
	// [0, Len()].
	ErrOutOfRange = errors.New("index out of range")

	// ErrTableMismatch is returned when two buffers with different
	// substitution tables are concatenated.
	ErrTableMismatch = errors.New("buffers use different substitution tables")

	// ErrRefinalized is returned when Finalize is called on a buffer
	// that has already been finalized.
	ErrRefinalized = errors.New("buffer already finalized")
)

// FileError reports a fatal problem with a source file: it aborts the
// run before any parsing starts.
type FileError struct {
	Path string
	Msg  string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %q: %s", e.Path, e.Msg)
}

// EncodingError is a FileError caused by undecodable file content.
type EncodingError struct {
	FileError
}

// NewEncodingError builds an EncodingError for path.
func NewEncodingError(path, msg string) *EncodingError {
	return &EncodingError{FileError{Path: path, Msg: msg}}
}

// LocalVariablesError reports a malformed header line. Like FileError it
// is fatal and aborts the run before parsing.
type LocalVariablesError struct {
	Path string
	Msg  string
}

func (e *LocalVariablesError) Error() string {
	return fmt.Sprintf("file %q: %s", e.Path, e.Msg)
}

// Issue is a recoverable problem found while a buffer was constructed
// (for example a malformed numeric entity). The parser turns issues into
// parse diagnostics; buffer construction itself continues with a
// placeholder.
type Issue struct {
	Position PositionMarker
	Message  string
	Warning  bool
}
