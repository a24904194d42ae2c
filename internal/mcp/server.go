package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/Fuabioo/zipread/internal/config"
	"github.com/Fuabioo/zipread/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "zipread"
	serverVersion = "0.1.0"
)

// Server wraps the MCP server with zipread-specific state.
type Server struct {
	mcp *server.MCPServer
	cfg *config.Config
	log logger.Logger
}

// NewServer creates and configures the MCP server with all zipread tools registered.
// A nil cfg uses the defaults; a nil log discards output.
func NewServer(cfg *config.Config, log logger.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Noop()
	}

	s := &Server{
		cfg: cfg,
		log: log.With("component", "mcp"),
	}

	// Create MCP server
	s.mcp = server.NewMCPServer(serverName, serverVersion)

	// Register all tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// registerTools registers the archive inspection tools.
func (s *Server) registerTools() error {
	// zip_list
	s.mcp.AddTool(mcp.NewTool("zip_list",
		mcp.WithDescription("Lists the entries of a zip archive without reading their content"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path to the zip file")),
		mcp.WithString("glob",
			mcp.Description("Only list entries whose name or base name matches (e.g., \"*.txt\")")),
	), s.handleList)

	// zip_info
	s.mcp.AddTool(mcp.NewTool("zip_info",
		mcp.WithDescription("Summarizes a zip archive, or describes one entry when entry or index is given"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path to the zip file")),
		mcp.WithString("entry",
			mcp.Description("Entry name")),
		mcp.WithNumber("index",
			mcp.Description("Entry position in the central directory")),
	), s.handleInfo)

	// zip_read
	s.mcp.AddTool(mcp.NewTool("zip_read",
		mcp.WithDescription("Decompresses an entry and returns its content, verifying its CRC-32"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path to the zip file")),
		mcp.WithString("entry",
			mcp.Description("Entry name")),
		mcp.WithNumber("index",
			mcp.Description("Entry position in the central directory")),
		mcp.WithString("encoding",
			mcp.Description("\"utf-8\" (default) or \"base64\" for binary")),
		mcp.WithNumber("offset",
			mcp.Description("Byte offset to start reading")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum bytes to read")),
	), s.handleRead)

	// zip_sum
	s.mcp.AddTool(mcp.NewTool("zip_sum",
		mcp.WithDescription("Returns BLAKE3 digests of entry contents"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path to the zip file")),
		mcp.WithString("entry",
			mcp.Description("Entry name (default: every file entry)")),
	), s.handleSum)

	// zip_extract
	s.mcp.AddTool(mcp.NewTool("zip_extract",
		mcp.WithDescription("Extracts every entry into a directory after limit and path checks"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path to the zip file")),
		mcp.WithString("dest",
			mcp.Required(),
			mcp.Description("Absolute path of the destination directory")),
	), s.handleExtract)

	return nil
}

// Serve starts the MCP server on stdio transport.
func (s *Server) Serve() error {
	stdioServer := server.NewStdioServer(s.mcp)
	ctx := context.Background()
	s.log.Info("serving MCP on stdio")
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("failed to serve MCP: %w", err)
	}
	return nil
}

// Serve creates a new MCP server and starts serving on stdio.
func Serve(cfg *config.Config, log logger.Logger) error {
	srv, err := NewServer(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Serve(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
