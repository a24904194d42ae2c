package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fuabioo/zipread/internal/config"
	"github.com/Fuabioo/zipread/internal/errors"
	"github.com/Fuabioo/zipread/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

// newTestRequest creates a CallToolRequest for testing
func newTestRequest(arguments map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: arguments,
		},
	}
}

// getResultText extracts the text from a CallToolResult for testing
func getResultText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := mcp.AsTextContent(result.Content[0]); ok {
		return textContent.Text
	}
	return ""
}

// decodeResult parses the JSON body of a result.
func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(getResultText(result)), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return response
}

// requireErrorCode asserts the result is an error carrying code.
func requireErrorCode(t *testing.T, result *mcp.CallToolResult, code string) {
	t.Helper()

	if !result.IsError {
		t.Errorf("expected IsError, got result: %s", getResultText(result))
	}
	response := decodeResult(t, result)
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got: %v", response)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v (%v)", code, errObj["code"], errObj["message"])
	}
}

func TestHandleList_Success(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{
		"a.txt":     "alpha",
		"dir/b.txt": "bravo",
		"dir/c.go":  "package c",
	})

	result, err := srv.handleList(context.Background(), newTestRequest(map[string]interface{}{
		"path": zipPath,
	}))
	if err != nil {
		t.Fatalf("handleList failed: %v", err)
	}

	response := decodeResult(t, result)
	if response["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", response["count"])
	}

	entries := response["entries"].([]interface{})
	first := entries[0].(map[string]interface{})
	if first["name"] != "a.txt" {
		t.Errorf("expected first entry a.txt, got %v", first["name"])
	}
	if first["index"] != float64(0) {
		t.Errorf("expected index 0, got %v", first["index"])
	}
	if first["method"] != "deflate" {
		t.Errorf("expected method deflate, got %v", first["method"])
	}
}

func TestHandleList_Glob(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{
		"a.txt":     "alpha",
		"dir/b.txt": "bravo",
		"dir/c.go":  "package c",
	})

	result, err := srv.handleList(context.Background(), newTestRequest(map[string]interface{}{
		"path": zipPath,
		"glob": "*.txt",
	}))
	if err != nil {
		t.Fatalf("handleList failed: %v", err)
	}

	response := decodeResult(t, result)
	if response["count"] != float64(2) {
		t.Errorf("expected 2 .txt entries, got %v", response["count"])
	}
}

func TestHandleList_InvalidGlob(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"a.txt": "alpha"})

	result, _ := srv.handleList(context.Background(), newTestRequest(map[string]interface{}{
		"path": zipPath,
		"glob": "[",
	}))
	requireErrorCode(t, result, "INVALID_PARAMS")
}

func TestHandleList_MissingPath(t *testing.T) {
	srv := newTestServer(t)

	result, _ := srv.handleList(context.Background(), newTestRequest(map[string]interface{}{}))
	requireErrorCode(t, result, "INVALID_PARAMS")
}

func TestHandleList_Errors(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()

	notZip := filepath.Join(dir, "not.zip")
	if err := os.WriteFile(notZip, []byte("this is plainly not an archive, it has no end record"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.zip"), code: errors.CodeIO},
		{name: "not a zip", path: notZip, code: errors.CodeZipInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.handleList(context.Background(), newTestRequest(map[string]interface{}{
				"path": tt.path,
			}))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			requireErrorCode(t, result, tt.code)
		})
	}
}

func TestHandleInfo_Archive(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"a.txt": "alpha", "b.txt": "bravo"})

	result, err := srv.handleInfo(context.Background(), newTestRequest(map[string]interface{}{
		"path": zipPath,
	}))
	if err != nil {
		t.Fatalf("handleInfo failed: %v", err)
	}

	response := decodeResult(t, result)
	if response["entries"] != float64(2) {
		t.Errorf("expected 2 entries, got %v", response["entries"])
	}
	if response["uncompressed_size"] != float64(10) {
		t.Errorf("expected uncompressed_size 10, got %v", response["uncompressed_size"])
	}
	if response["within_limits"] != true {
		t.Errorf("expected within_limits true, got %v", response["within_limits"])
	}
}

func TestHandleInfo_Entry(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"a.txt": "alpha", "b.txt": "bravo"})

	t.Run("by index", func(t *testing.T) {
		result, _ := srv.handleInfo(context.Background(), newTestRequest(map[string]interface{}{
			"path":  zipPath,
			"index": 1,
		}))
		response := decodeResult(t, result)
		if response["name"] != "b.txt" {
			t.Errorf("expected b.txt, got %v", response["name"])
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		result, _ := srv.handleInfo(context.Background(), newTestRequest(map[string]interface{}{
			"path":  zipPath,
			"index": 5,
		}))
		requireErrorCode(t, result, errors.CodeFileNotFound)
	})

	t.Run("name and index", func(t *testing.T) {
		result, _ := srv.handleInfo(context.Background(), newTestRequest(map[string]interface{}{
			"path":  zipPath,
			"entry": "a.txt",
			"index": 0,
		}))
		requireErrorCode(t, result, "INVALID_PARAMS")
	})
}

func TestHandleRead_Success(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"hello.txt": "hello world"})

	result, err := srv.handleRead(context.Background(), newTestRequest(map[string]interface{}{
		"path":  zipPath,
		"entry": "hello.txt",
	}))
	if err != nil {
		t.Fatalf("handleRead failed: %v", err)
	}

	response := decodeResult(t, result)
	if response["content"] != "hello world" {
		t.Errorf("expected content 'hello world', got %v", response["content"])
	}
	if response["encoding"] != "utf-8" {
		t.Errorf("expected utf-8 encoding, got %v", response["encoding"])
	}
}

func TestHandleRead_Base64(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"bin.dat": "\x00\x01\x02\xff"})

	result, _ := srv.handleRead(context.Background(), newTestRequest(map[string]interface{}{
		"path":     zipPath,
		"index":    0,
		"encoding": "base64",
	}))

	response := decodeResult(t, result)
	decoded, err := base64.StdEncoding.DecodeString(response["content"].(string))
	if err != nil {
		t.Fatalf("content is not base64: %v", err)
	}
	if string(decoded) != "\x00\x01\x02\xff" {
		t.Errorf("decoded content = %q", decoded)
	}
}

func TestHandleRead_OffsetLimit(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"digits.txt": "0123456789"})

	tests := []struct {
		name   string
		offset int
		limit  int
		want   string
	}{
		{name: "offset", offset: 4, want: "456789"},
		{name: "limit", limit: 3, want: "012"},
		{name: "both", offset: 2, limit: 2, want: "23"},
		{name: "past end", offset: 50, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := srv.handleRead(context.Background(), newTestRequest(map[string]interface{}{
				"path":   zipPath,
				"entry":  "digits.txt",
				"offset": tt.offset,
				"limit":  tt.limit,
			}))
			response := decodeResult(t, result)
			if response["content"] != tt.want {
				t.Errorf("expected %q, got %v", tt.want, response["content"])
			}
		})
	}
}

func TestHandleRead_Errors(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"a.txt": "alpha"})

	encryptedPath := filepath.Join(t.TempDir(), "encrypted.zip")
	createEncryptedZip(t, encryptedPath)

	tests := []struct {
		name string
		args map[string]interface{}
		code string
	}{
		{
			name: "entry not found",
			args: map[string]interface{}{"path": zipPath, "entry": "missing.txt"},
			code: errors.CodeFileNotFound,
		},
		{
			name: "no entry selector",
			args: map[string]interface{}{"path": zipPath},
			code: "INVALID_PARAMS",
		},
		{
			name: "bad encoding",
			args: map[string]interface{}{"path": zipPath, "entry": "a.txt", "encoding": "latin1"},
			code: "INVALID_PARAMS",
		},
		{
			name: "negative offset",
			args: map[string]interface{}{"path": zipPath, "entry": "a.txt", "offset": -1},
			code: "INVALID_PARAMS",
		},
		{
			name: "negative limit",
			args: map[string]interface{}{"path": zipPath, "entry": "a.txt", "limit": -5},
			code: "INVALID_PARAMS",
		},
		{
			name: "password required",
			args: map[string]interface{}{"path": encryptedPath, "entry": "secret.txt"},
			code: errors.CodePasswordRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.handleRead(context.Background(), newTestRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			requireErrorCode(t, result, tt.code)
		})
	}
}

func TestHandleRead_ExtractedSizeLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Limits.MaxExtractedSizeBytes = 1024
	srv, err := NewServer(cfg, logger.Noop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	big := strings.Repeat("abcd", 1024)
	zipPath := writeTestZip(t, map[string]string{
		"big.txt":   big,
		"exact.txt": big[:1024],
	})

	result, _ := srv.handleRead(context.Background(), newTestRequest(map[string]interface{}{
		"path":  zipPath,
		"entry": "big.txt",
	}))
	requireErrorCode(t, result, errors.CodeZipUnsupported)

	result, _ = srv.handleRead(context.Background(), newTestRequest(map[string]interface{}{
		"path":  zipPath,
		"entry": "big.txt",
		"limit": 4,
	}))
	response := decodeResult(t, result)
	if response["content"] != "abcd" {
		t.Errorf("limited read = %v, want %q", response["content"], "abcd")
	}

	result, _ = srv.handleRead(context.Background(), newTestRequest(map[string]interface{}{
		"path":  zipPath,
		"entry": "exact.txt",
	}))
	response = decodeResult(t, result)
	if response["size_bytes"] != float64(1024) {
		t.Errorf("size_bytes = %v, want 1024", response["size_bytes"])
	}
}

func TestHandleSum(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"a.txt": "same", "b.txt": "same", "c.txt": "different"})

	result, err := srv.handleSum(context.Background(), newTestRequest(map[string]interface{}{
		"path": zipPath,
	}))
	if err != nil {
		t.Fatalf("handleSum failed: %v", err)
	}

	digests := decodeResult(t, result)["digests"].([]interface{})
	if len(digests) != 3 {
		t.Fatalf("expected 3 digests, got %d", len(digests))
	}

	sum := func(i int) string {
		return digests[i].(map[string]interface{})["blake3"].(string)
	}
	if len(sum(0)) != 64 {
		t.Errorf("expected 64 hex chars, got %q", sum(0))
	}
	if sum(0) != sum(1) {
		t.Error("identical content should hash identically")
	}
	if sum(0) == sum(2) {
		t.Error("different content should hash differently")
	}

	single, _ := srv.handleSum(context.Background(), newTestRequest(map[string]interface{}{
		"path":  zipPath,
		"entry": "c.txt",
	}))
	one := decodeResult(t, single)["digests"].([]interface{})
	if len(one) != 1 || one[0].(map[string]interface{})["blake3"] != sum(2) {
		t.Errorf("single entry digest mismatch: %v", one)
	}
}

func TestHandleSum_Cancelled(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"a.txt": "alpha"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, _ := srv.handleSum(ctx, newTestRequest(map[string]interface{}{"path": zipPath}))
	requireErrorCode(t, result, "CANCELLED")
}

func TestHandleExtract(t *testing.T) {
	srv := newTestServer(t)
	zipPath := writeTestZip(t, map[string]string{"a.txt": "alpha", "dir/b.txt": "bravo"})
	dest := filepath.Join(t.TempDir(), "out")

	result, err := srv.handleExtract(context.Background(), newTestRequest(map[string]interface{}{
		"path": zipPath,
		"dest": dest,
	}))
	if err != nil {
		t.Fatalf("handleExtract failed: %v", err)
	}

	response := decodeResult(t, result)
	if response["files"] != float64(2) {
		t.Errorf("expected 2 files, got %v", response["files"])
	}

	data, err := os.ReadFile(filepath.Join(dest, "dir", "b.txt"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "bravo" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestHandleExtract_LimitExceeded(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Limits.MaxFileCount = 1
	srv, err := NewServer(cfg, logger.Noop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	zipPath := writeTestZip(t, map[string]string{"a.txt": "alpha", "b.txt": "bravo"})
	dest := filepath.Join(t.TempDir(), "out")

	result, _ := srv.handleExtract(context.Background(), newTestRequest(map[string]interface{}{
		"path": zipPath,
		"dest": dest,
	}))
	requireErrorCode(t, result, errors.CodeZipUnsupported)

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination should not be created when limits fail, stat err = %v", err)
	}
}

func TestMCPErrorResult_UnclassifiedError(t *testing.T) {
	result := mcpErrorResult(os.ErrInvalid)
	requireErrorCode(t, result, "INTERNAL_ERROR")
}
