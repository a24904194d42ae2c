package archive

import (
	"archive/zip"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression method identifiers from APPNOTE 4.4.5.
const (
	MethodStore     uint16 = 0
	MethodDeflate   uint16 = 8
	MethodDeflate64 uint16 = 9
	MethodBzip2     uint16 = 12
	MethodLZMA      uint16 = 14
	MethodZstd      uint16 = 93
	MethodXZ        uint16 = 95
	MethodAES       uint16 = 99
)

var methodNames = map[uint16]string{
	MethodStore:     "store",
	MethodDeflate:   "deflate",
	MethodDeflate64: "deflate64",
	MethodBzip2:     "bzip2",
	MethodLZMA:      "lzma",
	MethodZstd:      "zstd",
	MethodXZ:        "xz",
	MethodAES:       "aes",
}

// MethodName returns a lowercase display name for method.
func MethodName(method uint16) string {
	if name, ok := methodNames[method]; ok {
		return name
	}
	return fmt.Sprintf("method-%d", method)
}

// MethodSupported reports whether entries compressed with method can be read.
func MethodSupported(method uint16) bool {
	switch method {
	case MethodStore, MethodDeflate, MethodBzip2, MethodZstd, MethodXZ:
		return true
	}
	return false
}

func registerDecompressors(zr *zip.Reader) {
	zr.RegisterDecompressor(MethodDeflate, newFlateReader)
	zr.RegisterDecompressor(MethodBzip2, newBzip2Reader)
	zr.RegisterDecompressor(MethodZstd, newZstdReader)
	zr.RegisterDecompressor(MethodXZ, newXZReader)
}

func newFlateReader(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

func newBzip2Reader(r io.Reader) io.ReadCloser {
	return io.NopCloser(bzip2.NewReader(r))
}

func newZstdReader(r io.Reader) io.ReadCloser {
	d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return &failedReader{err: err}
	}
	return d.IOReadCloser()
}

func newXZReader(r io.Reader) io.ReadCloser {
	xr, err := xz.NewReader(r)
	if err != nil {
		return &failedReader{err: err}
	}
	return io.NopCloser(xr)
}

// failedReader defers a decoder construction error to the first Read, since
// zip.Decompressor has no error return.
type failedReader struct {
	err error
}

func (r *failedReader) Read([]byte) (int, error) {
	return 0, r.err
}

func (r *failedReader) Close() error {
	return nil
}
