package dataset

import (
	stdpath "path"
	"path/filepath"
	"strings"
)

// Slug derives the canonical identifier of a dataset from its source file
// path: the base name without extension, lowercased. Both forward and OS
// separators are accepted.
func Slug(path string) string {
	base := stdpath.Base(filepath.ToSlash(path))
	base = strings.TrimSuffix(base, stdpath.Ext(base))
	return strings.ToLower(base)
}
