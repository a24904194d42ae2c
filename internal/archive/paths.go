package archive

import (
	"path/filepath"
	"strings"

	"github.com/Fuabioo/zipread/internal/errors"
)

// ValidatePath checks if an entry path is safe to extract within the given
// base directory.
//
// Security checks:
// - Rejects empty names and names with null bytes (InvalidEntryName)
// - Rejects absolute paths (InsecurePath)
// - Rejects paths with ".." sequences that escape base (InsecurePath)
func ValidatePath(base, entryPath string) error {
	if entryPath == "" || strings.Contains(entryPath, "\x00") {
		return errors.InvalidArchive(errors.InvalidEntryName)
	}

	// Archive names always use forward slashes; a leading one or a volume
	// name makes the path absolute.
	slashed := filepath.ToSlash(entryPath)
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(entryPath) || filepath.VolumeName(entryPath) != "" {
		return errors.InvalidArchive(errors.InsecurePath)
	}

	cleanBase := filepath.Clean(base)
	cleanEntry := filepath.Clean(filepath.FromSlash(slashed))

	if cleanEntry == ".." || strings.HasPrefix(cleanEntry, ".."+string(filepath.Separator)) {
		return errors.InvalidArchive(errors.InsecurePath)
	}

	target := filepath.Join(cleanBase, cleanEntry)
	rel, err := filepath.Rel(cleanBase, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.InvalidArchive(errors.InsecurePath)
	}

	return nil
}

// ValidateAllPaths validates every entry name, returning the first failure.
// Fail-closed: if any path is invalid, all are rejected.
func ValidateAllPaths(base string, entries []Entry) error {
	for i := range entries {
		if err := ValidatePath(base, entries[i].Name); err != nil {
			return err
		}
	}
	return nil
}
