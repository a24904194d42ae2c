package archive

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// testFile describes one entry written by buildZip.
type testFile struct {
	header  zip.FileHeader
	content string
	// raw writes content verbatim with the header's CRC and sizes.
	raw bool
}

func textFile(name, content string) testFile {
	return testFile{
		header: zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: time.Date(2000, time.June, 15, 12, 30, 44, 0, time.UTC),
		},
		content: content,
	}
}

// buildZip writes files into an in-memory archive and returns its bytes.
func buildZip(t *testing.T, files ...testFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(MethodZstd, func(out io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(out)
	})
	w.RegisterCompressor(MethodXZ, func(out io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(out)
	})

	for _, f := range files {
		header := f.header
		var (
			fw  io.Writer
			err error
		)
		if f.raw {
			fw, err = w.CreateRaw(&header)
		} else {
			fw, err = w.CreateHeader(&header)
		}
		require.NoError(t, err, "create %s", header.Name)

		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err, "write %s", header.Name)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// openBytes opens an in-memory archive with default options.
func openBytes(t *testing.T, data []byte) *Archive {
	t.Helper()

	a, err := NewReader(bytes.NewReader(data), int64(len(data)), DefaultOptions())
	require.NoError(t, err)
	return a
}

// rawStored returns a stored entry whose CRC is taken from crcOf.
func rawStored(name, content, crcOf string) testFile {
	return testFile{
		header: zip.FileHeader{
			Name:               name,
			Method:             zip.Store,
			CRC32:              crc32.ChecksumIEEE([]byte(crcOf)),
			CompressedSize64:   uint64(len(content)),
			UncompressedSize64: uint64(len(content)),
		},
		content: content,
		raw:     true,
	}
}

// failingReaderAt fails every read with err.
type failingReaderAt struct {
	err error
}

func (r failingReaderAt) ReadAt([]byte, int64) (int, error) {
	return 0, r.err
}

func zipDir(name string) zip.FileHeader {
	return zip.FileHeader{Name: name, Method: zip.Store}
}
