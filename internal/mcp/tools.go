package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/Fuabioo/zipread/internal/archive"
	"github.com/Fuabioo/zipread/internal/errors"
	"github.com/Fuabioo/zipread/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

// handleList implements zip_list: Lists the entries of an archive.
func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult("INVALID_PARAMS", "path is required"), nil
	}
	glob := request.GetString("glob", "")

	a, err := s.open(path)
	if err != nil {
		return mcpErrorResult(err), nil
	}
	defer a.Close()

	entries := a.Entries()
	if glob != "" {
		entries, err = a.Glob(glob)
		if err != nil {
			return errorResult("INVALID_PARAMS", err.Error()), nil
		}
	}

	out := make([]map[string]interface{}, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].Fields())
	}

	response := map[string]interface{}{
		"entries": out,
		"count":   len(out),
	}
	if a.Comment() != "" {
		response["comment"] = a.Comment()
	}

	return jsonResult(response), nil
}

// handleInfo implements zip_info: Summarizes an archive or one entry.
func (s *Server) handleInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult("INVALID_PARAMS", "path is required"), nil
	}

	a, err := s.open(path)
	if err != nil {
		return mcpErrorResult(err), nil
	}
	defer a.Close()

	if request.GetString("entry", "") != "" || request.GetInt("index", -1) >= 0 {
		e, errResult := selectEntry(a, request)
		if errResult != nil {
			return errResult, nil
		}
		return jsonResult(e.Fields()), nil
	}

	check := a.CheckLimits()
	var compressed uint64
	for _, e := range a.Entries() {
		compressed += e.CompressedSize
	}

	response := map[string]interface{}{
		"entries":           a.Len(),
		"comment":           a.Comment(),
		"compressed_size":   compressed,
		"uncompressed_size": check.TotalUncompressedSize,
		"max_ratio":         check.MaxCompressionRatio,
		"within_limits":     check.IsSafe,
	}
	if !check.IsSafe {
		response["limit_reason"] = check.Reason
	}

	return jsonResult(response), nil
}

// handleRead implements zip_read: Decompresses an entry and returns its content.
func (s *Server) handleRead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult("INVALID_PARAMS", "path is required"), nil
	}
	encoding := request.GetString("encoding", "utf-8")
	offset := request.GetInt("offset", 0)
	limit := request.GetInt("limit", 0)

	if encoding != "utf-8" && encoding != "base64" {
		return errorResult("INVALID_PARAMS", fmt.Sprintf("unsupported encoding %q", encoding)), nil
	}
	if offset < 0 || limit < 0 {
		return errorResult("INVALID_PARAMS", "offset and limit must not be negative"), nil
	}

	a, err := s.open(path)
	if err != nil {
		return mcpErrorResult(err), nil
	}
	defer a.Close()

	e, errResult := selectEntry(a, request)
	if errResult != nil {
		return errResult, nil
	}
	if e.IsDir {
		return errorResult("INVALID_PARAMS", fmt.Sprintf("%q is a directory", e.Name)), nil
	}

	data, err := a.ReadRange(e, int64(offset), int64(limit))
	if err != nil {
		s.logFailure("read failed", e.Name, err)
		return mcpErrorResult(err), nil
	}

	// Encode based on encoding parameter
	var content string
	if encoding == "base64" {
		content = base64.StdEncoding.EncodeToString(data)
	} else {
		content = string(data)
	}

	response := map[string]interface{}{
		"name":       e.Name,
		"content":    content,
		"size_bytes": len(data),
		"encoding":   encoding,
	}

	return jsonResult(response), nil
}

// handleSum implements zip_sum: Returns BLAKE3 digests of entry contents.
func (s *Server) handleSum(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult("INVALID_PARAMS", "path is required"), nil
	}
	name := request.GetString("entry", "")

	a, err := s.open(path)
	if err != nil {
		return mcpErrorResult(err), nil
	}
	defer a.Close()

	var targets []*archive.Entry
	if name != "" {
		e, err := a.ByName(name)
		if err != nil {
			return mcpErrorResult(err), nil
		}
		targets = append(targets, e)
	} else {
		entries := a.Entries()
		for i := range entries {
			if !entries[i].IsDir {
				targets = append(targets, &entries[i])
			}
		}
	}

	digests := make([]map[string]interface{}, 0, len(targets))
	for _, e := range targets {
		if err := ctx.Err(); err != nil {
			return errorResult("CANCELLED", err.Error()), nil
		}
		d, err := a.Sum(e)
		if err != nil {
			s.logFailure("hash failed", e.Name, err)
			return mcpErrorResult(fmt.Errorf("%s: %w", e.Name, err)), nil
		}
		digests = append(digests, map[string]interface{}{
			"name":   e.Name,
			"blake3": d.String(),
		})
	}

	return jsonResult(map[string]interface{}{"digests": digests}), nil
}

// handleExtract implements zip_extract: Extracts every entry into a directory.
func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult("INVALID_PARAMS", "path is required"), nil
	}
	dest, err := request.RequireString("dest")
	if err != nil {
		return errorResult("INVALID_PARAMS", "dest is required"), nil
	}

	a, err := s.open(path)
	if err != nil {
		return mcpErrorResult(err), nil
	}
	defer a.Close()

	result, err := archive.Extract(a, dest, nil)
	if err != nil {
		s.logFailure("extract failed", path, err)
		return mcpErrorResult(err), nil
	}

	response := map[string]interface{}{
		"dest":        dest,
		"files":       result.FileCount,
		"dirs":        result.DirCount,
		"total_bytes": result.TotalSize,
	}
	if len(result.UndatedEntries) > 0 {
		response["undated_entries"] = result.UndatedEntries
	}

	return jsonResult(response), nil
}

// Helper functions

func (s *Server) open(path string) (*archive.Archive, error) {
	a, err := archive.Open(path, s.cfg.ArchiveOptions())
	if err != nil {
		s.logFailure("open archive failed", path, err)
		return nil, err
	}
	return a, nil
}

func (s *Server) logFailure(msg, subject string, err error) {
	s.log.Debug(msg, append([]any{"subject", subject}, logger.ErrorFields(err)...)...)
}

// selectEntry resolves the entry named by the "entry" or "index" argument.
func selectEntry(a *archive.Archive, request mcp.CallToolRequest) (*archive.Entry, *mcp.CallToolResult) {
	name := request.GetString("entry", "")
	index := request.GetInt("index", -1)

	var e *archive.Entry
	var err error
	switch {
	case name != "" && index >= 0:
		return nil, errorResult("INVALID_PARAMS", "specify either entry or index, not both")
	case name != "":
		e, err = a.ByName(name)
	case index >= 0:
		e, err = a.ByIndex(index)
	default:
		return nil, errorResult("INVALID_PARAMS", "entry or index is required")
	}
	if err != nil {
		return nil, mcpErrorResult(err)
	}
	return e, nil
}

// mcpErrorResult converts a zipread error to an MCP error result.
func mcpErrorResult(err error) *mcp.CallToolResult {
	code := errors.Code(err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}

	return errorResult(code, err.Error())
}

// errorResult creates an MCP error result.
func errorResult(code, message string) *mcp.CallToolResult {
	errorData := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}

	var result *mcp.CallToolResult
	jsonBytes, err := json.Marshal(errorData)
	if err != nil {
		// Fallback to simple text
		result = mcp.NewToolResultText(fmt.Sprintf("Error: %s - %s", code, message))
	} else {
		result = mcp.NewToolResultText(string(jsonBytes))
	}
	result.IsError = true

	return result
}

// jsonResult creates an MCP success result from a JSON-serializable object.
func jsonResult(data interface{}) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return errorResult("INTERNAL_ERROR", fmt.Sprintf("failed to marshal response: %s", err))
	}

	return mcp.NewToolResultText(string(jsonBytes))
}
