package archive

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// ValidateGlobPattern checks a glob pattern before it is matched against
// entry names.
// Rejects:
// - Empty patterns
// - Null bytes and control characters
// - Malformed patterns (path.ErrBadPattern)
func ValidateGlobPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("glob pattern cannot be empty")
	}

	for _, r := range pattern {
		if unicode.IsControl(r) {
			return fmt.Errorf("glob pattern contains control character: %q", pattern)
		}
	}

	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	return nil
}

// Glob returns the entries whose name, or whose base name, matches pattern.
// An empty result is not an error.
func (a *Archive) Glob(pattern string) ([]Entry, error) {
	if err := ValidateGlobPattern(pattern); err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range a.entries {
		name := strings.TrimSuffix(e.Name, "/")
		full, _ := path.Match(pattern, name)
		base, _ := path.Match(pattern, path.Base(name))
		if full || base {
			out = append(out, e)
		}
	}
	return out, nil
}

// DisplayName quotes names containing control characters so they cannot
// corrupt terminal output.
func DisplayName(name string) string {
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Sprintf("%q", name)
		}
	}
	return name
}
