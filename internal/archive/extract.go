package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Fuabioo/zipread/internal/errors"
)

// ProgressFunc is called after each entry is written.
type ProgressFunc func(done, total int, e *Entry)

// ExtractResult summarizes an extraction.
type ExtractResult struct {
	FileCount int
	DirCount  int
	TotalSize uint64
	// Entries whose timestamp could not be decoded keep the extraction time.
	UndatedEntries []string
}

// Extract writes every entry of a into destDir.
// Uses fail-closed validation: limits and all paths are checked before
// anything is written.
func Extract(a *Archive, destDir string, progress ProgressFunc) (*ExtractResult, error) {
	if _, err := a.EnforceLimits(); err != nil {
		return nil, err
	}
	if err := ValidateAllPaths(destDir, a.entries); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", errors.FromIO(err))
	}

	result := &ExtractResult{}
	total := len(a.entries)
	for i := range a.entries {
		e := &a.entries[i]
		if err := extractEntry(a, e, destDir, result); err != nil {
			return result, fmt.Errorf("failed to extract %q: %w", e.Name, err)
		}
		if progress != nil {
			progress(i+1, total, e)
		}
	}

	return result, nil
}

func extractEntry(a *Archive, e *Entry, destDir string, result *ExtractResult) error {
	destPath := filepath.Join(destDir, filepath.FromSlash(e.Name))

	if e.IsDir {
		if err := os.MkdirAll(destPath, 0755); err != nil {
			return errors.FromIO(err)
		}
		result.DirCount++
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.FromIO(err)
	}

	rc, err := a.Open(e)
	if err != nil {
		return err
	}
	defer rc.Close()

	// Write beside the target and rename so a failed entry never leaves a
	// partial file under the real name.
	tmpPath := destPath + ".zipread-" + uuid.NewString()
	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.FromIO(err)
	}

	written, copyErr := io.Copy(out, rc)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr != nil {
			// Read-side errors are already classified; write-side ones are not.
			return errors.FromIO(copyErr)
		}
		return errors.FromIO(closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return errors.FromIO(err)
	}

	if modified, err := e.Modified(); err == nil {
		mtime := modified.Time(time.Local)
		if err := os.Chtimes(destPath, mtime, mtime); err != nil {
			return errors.FromIO(err)
		}
	} else {
		result.UndatedEntries = append(result.UndatedEntries, e.Name)
	}

	result.FileCount++
	result.TotalSize += uint64(written)
	return nil
}
