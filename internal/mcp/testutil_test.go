package mcp

import (
	"archive/zip"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/Fuabioo/zipread/internal/config"
	"github.com/Fuabioo/zipread/internal/logger"
)

// createTestZip creates a simple test zip file with the given files.
// files is a map of path -> content. Entries are written in sorted order.
func createTestZip(t *testing.T, zipPath string, files map[string]string) {
	t.Helper()

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	defer w.Close()

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		f, err := w.Create(path)
		if err != nil {
			t.Fatalf("failed to create file %s in zip: %v", path, err)
		}

		if _, err := f.Write([]byte(files[path])); err != nil {
			t.Fatalf("failed to write content to %s: %v", path, err)
		}
	}
}

// createEncryptedZip writes a single stored entry flagged as encrypted.
func createEncryptedZip(t *testing.T, zipPath string) {
	t.Helper()

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	defer w.Close()

	content := []byte("ciphertext")
	fw, err := w.CreateRaw(&zip.FileHeader{
		Name:               "secret.txt",
		Method:             zip.Store,
		Flags:              0x1,
		CRC32:              crc32.ChecksumIEEE(content),
		CompressedSize64:   uint64(len(content)),
		UncompressedSize64: uint64(len(content)),
	})
	if err != nil {
		t.Fatalf("failed to create raw entry: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("failed to write raw entry: %v", err)
	}
}

// newTestServer returns a server with default configuration and a discarding logger.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(config.DefaultConfig(), logger.Noop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

// writeTestZip creates a zip in a temp dir and returns its path.
func writeTestZip(t *testing.T, files map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	createTestZip(t, zipPath, files)
	return zipPath
}
