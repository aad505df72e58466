package exclusion

import "strings"

// Editor edits one settings file
type Editor interface {
	// Path returns the settings file the editor writes
	Path() string
	// Add ensures pattern is excluded and reports whether the file changed
	Add(pattern string) (bool, error)
	// Remove drops pattern and reports whether the file changed
	Remove(pattern string) (bool, error)
	// Has reports whether pattern is currently excluded
	Has(pattern string) (bool, error)
}

// bareName strips the glob prefix from an exclude pattern
func bareName(pattern string) string {
	return strings.TrimPrefix(pattern, "**/")
}
