package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"

	// Compilation fields.
	FieldBackend      = "backend"
	FieldInputMethods = "input_methods"
	FieldEncoding     = "encoding"
	FieldNodes        = "nodes"
	FieldErrors       = "errors"
	FieldWarnings     = "warnings"
	FieldDuration     = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
