// Package archive provides read-only access to ZIP containers. Every failure
// it returns is classified through the errors taxonomy: stream failures as
// Io, format violations as InvalidArchive, unhandled features as
// UnsupportedArchive and lookup misses as FileNotFound.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Fuabioo/zipread/internal/errors"
)

const (
	directoryEndLen       = 22
	directoryEndSignature = "PK\x05\x06"
	maxCommentLen         = 0xffff
)

// Options configures how an archive is opened.
type Options struct {
	Limits Limits
}

// DefaultOptions returns Options with DefaultLimits.
func DefaultOptions() Options {
	return Options{Limits: DefaultLimits()}
}

// Archive is an opened ZIP container. It is safe for concurrent reads of
// different entries once opened.
type Archive struct {
	zr      *zip.Reader
	closer  io.Closer
	entries []Entry
	byName  map[string]int
	opts    Options
}

// Open opens the archive at path.
func Open(path string, opts Options) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FromIO(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.FromIO(err)
	}

	a, err := NewReader(f, info.Size(), opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f

	return a, nil
}

// NewReader reads the central directory of the size-byte archive in r.
func NewReader(r io.ReaderAt, size int64, opts Options) (*Archive, error) {
	if err := checkDirectoryEnd(r, size); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(r, size)
	if err != nil && err != zip.ErrInsecurePath {
		// Insecure names are rejected at extraction time, not on open.
		return nil, classify(err, errors.InvalidCentralDirectory)
	}
	registerDecompressors(zr)

	a := &Archive{
		zr:      zr,
		entries: make([]Entry, len(zr.File)),
		byName:  make(map[string]int, len(zr.File)),
		opts:    opts,
	}
	for i, f := range zr.File {
		a.entries[i] = newEntry(i, f)
		if _, dup := a.byName[a.entries[i].Name]; !dup {
			a.byName[a.entries[i].Name] = i
		}
	}

	return a, nil
}

// Close releases the underlying file, if Open created one.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return errors.FromIO(err)
	}
	return nil
}

// Len returns the number of entries in the central directory.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Comment returns the archive comment.
func (a *Archive) Comment() string {
	return a.zr.Comment
}

// Entries returns a copy of the entry list in directory order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// ByIndex returns the entry at position i.
func (a *Archive) ByIndex(i int) (*Entry, error) {
	if i < 0 || i >= len(a.entries) {
		return nil, errors.FileNotFound()
	}
	e := a.entries[i]
	return &e, nil
}

// ByName returns the first entry whose decoded name equals name.
func (a *Archive) ByName(name string) (*Entry, error) {
	i, ok := a.byName[name]
	if !ok {
		return nil, errors.FileNotFound()
	}
	e := a.entries[i]
	return &e, nil
}

// Open returns a reader for the decompressed content of e. Read errors from
// the returned reader are classified the same way as Open's.
func (a *Archive) Open(e *Entry) (io.ReadCloser, error) {
	if e == nil || e.Index < 0 || e.Index >= len(a.entries) || a.entries[e.Index].Name != e.Name {
		return nil, errors.FileNotFound()
	}
	if e.Encrypted {
		if e.Flags&flagStrongEncryption != 0 {
			return nil, errors.UnsupportedArchive(errors.UnsupportedEncryption)
		}
		return nil, errors.UnsupportedArchive(errors.PasswordRequired)
	}
	if !MethodSupported(e.Method) {
		return nil, errors.UnsupportedArchive(errors.UnsupportedCompression)
	}

	rc, err := a.zr.File[e.Index].Open()
	if err != nil {
		return nil, classify(err, errors.InvalidSignature)
	}

	return &entryReader{rc: rc}, nil
}

// ReadAll returns the decompressed content of e. Content beyond the
// configured MaxExtractedSize fails with ResourceLimitExceeded.
func (a *Archive) ReadAll(e *Entry) ([]byte, error) {
	return a.ReadRange(e, 0, 0)
}

// ReadRange returns up to limit bytes of e's content starting at offset.
// A zero limit reads to the end. Skipped bytes are decompressed and
// discarded, and the returned bytes are bounded by MaxExtractedSize. The
// CRC-32 is only verified when the read reaches the end of the entry.
func (a *Archive) ReadRange(e *Entry, offset, limit int64) ([]byte, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("offset and limit must not be negative")
	}

	br, err := a.openBounded(e)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	if offset > 0 {
		if _, err := io.CopyN(io.Discard, br.r, offset); err != nil {
			if err == io.EOF {
				return []byte{}, nil
			}
			return nil, fmt.Errorf("failed to read %q: %w", e.Name, err)
		}
	}

	var r io.Reader = br
	if limit > 0 {
		r = io.LimitReader(br, limit)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", e.Name, err)
	}
	return data, nil
}

// OpenBounded is Open with reads capped at the configured MaxExtractedSize.
// Reading past the cap fails with UnsupportedArchive(ResourceLimitExceeded).
func (a *Archive) OpenBounded(e *Entry) (io.ReadCloser, error) {
	br, err := a.openBounded(e)
	if err != nil {
		return nil, err
	}
	return br, nil
}

func (a *Archive) openBounded(e *Entry) (*boundedReader, error) {
	rc, err := a.Open(e)
	if err != nil {
		return nil, err
	}
	return &boundedReader{r: rc, c: rc, max: a.opts.Limits.MaxExtractedSize}, nil
}

// checkDirectoryEnd locates the end of central directory record and rejects
// inputs that are too short to hold one or that span several disks.
func checkDirectoryEnd(r io.ReaderAt, size int64) error {
	if size < directoryEndLen {
		return errors.InvalidArchive(errors.TruncatedArchive)
	}

	tail := int64(directoryEndLen + maxCommentLen)
	if tail > size {
		tail = size
	}
	buf := make([]byte, tail)
	if n, err := r.ReadAt(buf, size-tail); err != nil && !(err == io.EOF && int64(n) == tail) {
		return errors.FromIO(err)
	}

	i := bytes.LastIndex(buf, []byte(directoryEndSignature))
	for i >= 0 && len(buf)-i < directoryEndLen {
		i = bytes.LastIndex(buf[:i], []byte(directoryEndSignature))
	}
	if i < 0 {
		return errors.InvalidArchive(errors.InvalidCentralDirectory)
	}

	record := buf[i : i+directoryEndLen]
	diskNumber := binary.LittleEndian.Uint16(record[4:6])
	dirDiskNumber := binary.LittleEndian.Uint16(record[6:8])
	// 0xffff defers to the zip64 record.
	if (diskNumber != 0 && diskNumber != 0xffff) || (dirDiskNumber != 0 && dirDiskNumber != 0xffff) {
		return errors.UnsupportedArchive(errors.UnsupportedMultiDisk)
	}

	return nil
}

// boundedReader stops with ResourceLimitExceeded after max bytes. A zero max
// disables the bound.
type boundedReader struct {
	r   io.Reader
	c   io.Closer
	max uint64
	n   uint64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.max > 0 && b.n >= b.max {
		// Only fail if there is more content.
		var one [1]byte
		n, err := b.r.Read(one[:])
		if n == 0 {
			return 0, err
		}
		return 0, errors.UnsupportedArchive(errors.ResourceLimitExceeded)
	}
	if b.max > 0 && uint64(len(p)) > b.max-b.n {
		p = p[:b.max-b.n]
	}
	n, err := b.r.Read(p)
	b.n += uint64(n)
	return n, err
}

func (b *boundedReader) Close() error {
	return b.c.Close()
}

// entryReader classifies errors surfaced while decompressing an entry.
type entryReader struct {
	rc io.ReadCloser
}

func (r *entryReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, classify(err, errors.InvalidSignature)
	}
	return n, err
}

func (r *entryReader) Close() error {
	if err := r.rc.Close(); err != nil {
		return errors.FromIO(err)
	}
	return nil
}
