package archive

import (
	"archive/zip"
	stderrors "errors"

	"github.com/Fuabioo/zipread/internal/errors"
)

// classify maps archive/zip failures onto the taxonomy. formatDiag is used
// for zip.ErrFormat, whose meaning depends on where it surfaced.
func classify(err error, formatDiag errors.Diagnostic) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, zip.ErrFormat):
		return errors.InvalidArchive(formatDiag)
	case stderrors.Is(err, zip.ErrChecksum):
		return errors.InvalidArchive(errors.ChecksumMismatch)
	case stderrors.Is(err, zip.ErrAlgorithm):
		return errors.UnsupportedArchive(errors.UnsupportedCompression)
	}
	return errors.FromIO(err)
}
