package subst

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrNotLocalVariables is reported (wrapped) when a line that was
// required to be a local-variables line is not one.
var ErrNotLocalVariables = fmt.Errorf("malformed local variables line")

var (
	localVarsPattern = regexp.MustCompile(`-\*-\s*(.+?)\s*-\*-$`)
	validTokenRE     = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// ParseLocalVariables extracts key/value pairs from an Emacs-style local
// variables line such as
//
//	.. -*- coding: utf-8; input-method: minimal -*-
//
// Keys and values are restricted to lowercase ASCII tokens; a
// comma-separated value becomes a list. The commentMarker is the comment
// prefix the line must carry (".. " for document and input-method
// files). If the line does not look like a local-variables line at all,
// an empty map is returned; force turns that into an error. Malformed
// content is always an error.
func ParseLocalVariables(line string, force bool, commentMarker string) (map[string][]string, error) {
	trimmed := strings.ToLower(strings.TrimRight(line, " \t\r\n"))
	if !strings.HasPrefix(trimmed, commentMarker) {
		if force {
			return nil, ErrNotLocalVariables
		}
		return map[string][]string{}, nil
	}

	match := localVarsPattern.FindStringSubmatch(trimmed[len(commentMarker):])
	if match == nil {
		if force {
			return nil, ErrNotLocalVariables
		}
		return map[string][]string{}, nil
	}

	vars := map[string][]string{}
	for _, item := range strings.Split(match[1], ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, ok := strings.Cut(item, ":")
		if !ok {
			return nil, ErrNotLocalVariables
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !validTokenRE.MatchString(key) {
			return nil, fmt.Errorf("%w: bad key %q", ErrNotLocalVariables, key)
		}

		values := strings.Split(value, ",")
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
			if !validTokenRE.MatchString(values[i]) {
				return nil, fmt.Errorf("%w: bad value %q", ErrNotLocalVariables, values[i])
			}
		}
		vars[key] = values
	}
	return vars, nil
}

// LocalVariable returns the first value for key, or fallback when the
// key is absent.
func LocalVariable(vars map[string][]string, key, fallback string) string {
	if vs, ok := vars[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return fallback
}
