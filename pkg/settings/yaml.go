package settings

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by LoadYAML when the file does not exist.
// Callers probing a default location treat it as nothing to merge; a
// missing file the user named explicitly is a configuration error.
var ErrNotFound = errors.New("settings file not found")

// LoadYAML merges a configuration file into the store. Top-level keys
// are sections; nested keys become "section.option" overrides.
func (s *Store) LoadYAML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		return fmt.Errorf("settings: %w", err)
	}
	defer f.Close()

	if err := s.MergeYAML(f); err != nil {
		return fmt.Errorf("settings: %s: %w", path, err)
	}
	return nil
}

// MergeYAML merges YAML configuration from r into the store.
func (s *Store) MergeYAML(r io.Reader) error {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return s.merge("", raw)
}

func (s *Store) merge(prefix string, raw map[string]any) error {
	for key, value := range raw {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			if err := s.merge(full, nested); err != nil {
				return err
			}
			continue
		}
		if err := s.Set(full, value); err != nil {
			return err
		}
	}
	return nil
}
