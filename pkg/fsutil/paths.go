package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReplaceExt returns path with its extension swapped for ext, which
// must include the leading dot.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// UniquePath returns path if nothing exists there, otherwise the first
// variant with "_1", "_2", ... inserted before the extension that does
// not exist yet. Generated output must never silently clobber a file
// the user wrote.
func UniquePath(path string) (string, error) {
	if !exists(path) {
		return path, nil
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; i < 1000; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free output name near %q", path)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
