package archive

import (
	"archive/zip"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/Fuabioo/zipread/internal/dostime"
)

// General purpose bit flags.
const (
	flagEncrypted        = 0x0001
	flagStrongEncryption = 0x0040
	flagUTF8             = 0x0800
)

// Entry describes one file or directory in the central directory.
type Entry struct {
	Name             string
	Comment          string
	Index            int
	CompressedSize   uint64
	UncompressedSize uint64
	CRC32            uint32
	Method           uint16
	Flags            uint16
	ModifiedDate     uint16
	ModifiedTime     uint16
	Encrypted        bool
	IsDir            bool
}

func newEntry(index int, f *zip.File) Entry {
	name := f.Name
	comment := f.Comment
	if f.NonUTF8 && f.Flags&flagUTF8 == 0 {
		name = decodeCP437(name)
		comment = decodeCP437(comment)
	}

	return Entry{
		Index:            index,
		Name:             name,
		Comment:          comment,
		Method:           f.Method,
		Flags:            f.Flags,
		CompressedSize:   f.CompressedSize64,
		UncompressedSize: f.UncompressedSize64,
		CRC32:            f.CRC32,
		ModifiedDate:     f.ModifiedDate,
		ModifiedTime:     f.ModifiedTime,
		Encrypted:        f.Flags&flagEncrypted != 0,
		IsDir:            strings.HasSuffix(f.Name, "/"),
	}
}

// Modified decodes the entry's MS-DOS timestamp.
func (e *Entry) Modified() (dostime.DateTime, error) {
	return dostime.FromDOS(e.ModifiedDate, e.ModifiedTime)
}

// CompressionRatio returns uncompressed/compressed size, or 0 when the
// compressed size is zero.
func (e *Entry) CompressionRatio() float64 {
	if e.CompressedSize == 0 {
		return 0
	}
	return float64(e.UncompressedSize) / float64(e.CompressedSize)
}

// MethodName returns a display name for the entry's compression method.
func (e *Entry) MethodName() string {
	return MethodName(e.Method)
}

// Fields returns the entry as a map for JSON output. An undecodable
// timestamp yields a nil "modified" plus "modified_error".
func (e *Entry) Fields() map[string]interface{} {
	out := map[string]interface{}{
		"index":             e.Index,
		"name":              e.Name,
		"is_dir":            e.IsDir,
		"method":            e.MethodName(),
		"compressed_size":   e.CompressedSize,
		"uncompressed_size": e.UncompressedSize,
		"crc32":             fmt.Sprintf("%08x", e.CRC32),
		"encrypted":         e.Encrypted,
	}
	if modified, err := e.Modified(); err == nil {
		out["modified"] = modified.String()
	} else {
		out["modified"] = nil
		out["modified_error"] = err.Error()
	}
	if e.Comment != "" {
		out["comment"] = e.Comment
	}
	return out
}

func (e *Entry) String() string {
	return fmt.Sprintf("#%d %s", e.Index, e.Name)
}

func decodeCP437(s string) string {
	out, err := charmap.CodePage437.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
