// Package settings implements the typed configuration store for a
// compilation run. Keys are "section.option" pairs. Code registers
// defaults first, then the store is closed; afterwards user
// configuration may only override known keys with values of the
// registered type.
package settings

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	// ErrUnknownKey is returned when an override names a key no
	// component registered.
	ErrUnknownKey = errors.New("unknown settings key")

	// ErrTypeMismatch is returned when an override's value type differs
	// from the registered default's type.
	ErrTypeMismatch = errors.New("settings value has wrong type")

	// ErrClosed is returned when a default is registered after Close.
	ErrClosed = errors.New("settings store is closed")
)

var keyRE = regexp.MustCompile(`^[a-z0-9_-]+(\.[a-z0-9_-]+)*$`)

// Store holds the settings of one run.
type Store struct {
	values map[string]any
	closed bool
}

// NewStore creates an empty, open store.
func NewStore() *Store {
	return &Store{values: map[string]any{}}
}

// SetDefault registers key with its default value and thereby its type.
// Supported types are string, int, float64, bool, and []string.
func (s *Store) SetDefault(key string, value any) error {
	if s.closed {
		return fmt.Errorf("%w: cannot register default %q", ErrClosed, key)
	}
	if !keyRE.MatchString(key) {
		return fmt.Errorf("invalid settings key %q", key)
	}
	value, err := normalize(value)
	if err != nil {
		return fmt.Errorf("default for %q: %w", key, err)
	}
	s.values[key] = value
	return nil
}

// Close freezes the key set. Defaults registered so far define which
// overrides are legal.
func (s *Store) Close() { s.closed = true }

// Closed reports whether the key set is frozen.
func (s *Store) Closed() bool { return s.closed }

// Set overrides the value of a registered key. Before Close it behaves
// like SetDefault; afterwards unknown keys and type changes are errors.
func (s *Store) Set(key string, value any) error {
	if !s.closed {
		return s.SetDefault(key, value)
	}
	current, ok := s.values[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	value, err := normalize(value)
	if err != nil {
		return fmt.Errorf("value for %q: %w", key, err)
	}
	if fmt.Sprintf("%T", value) != fmt.Sprintf("%T", current) {
		return fmt.Errorf("%w: %q wants %T, got %T", ErrTypeMismatch, key, current, value)
	}
	s.values[key] = value
	return nil
}

// Get returns the raw value for key.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns the string value for key, or fallback.
func (s *Store) String(key, fallback string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return fallback
}

// Int returns the int value for key, or fallback.
func (s *Store) Int(key string, fallback int) int {
	if v, ok := s.values[key].(int); ok {
		return v
	}
	return fallback
}

// Float returns the float value for key, or fallback.
func (s *Store) Float(key string, fallback float64) float64 {
	if v, ok := s.values[key].(float64); ok {
		return v
	}
	return fallback
}

// Bool returns the bool value for key, or fallback.
func (s *Store) Bool(key string, fallback bool) bool {
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return fallback
}

// StringList returns the list value for key, or nil.
func (s *Store) StringList(key string) []string {
	if v, ok := s.values[key].([]string); ok {
		return v
	}
	return nil
}

// Keys returns all registered keys, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalize coerces a value into one of the supported types. YAML
// decoding produces int, float64, bool, string, and []any.
func normalize(value any) (any, error) {
	switch v := value.(type) {
	case string, int, float64, bool, []string:
		return v, nil
	case int64:
		return int(v), nil
	case []any:
		list := make([]string, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list element %d is %T, want string", i, item)
			}
			list[i] = str
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
