package cli

import (
	"github.com/Fuabioo/zipread/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server on stdio",
	Long: `Starts the Model Context Protocol (MCP) server on stdio.

This command is used by MCP clients (Claude Desktop, etc.) to inspect zip
archives through zipread. It should not be run directly by users.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	return mcp.Serve(env.cfg, env.log)
}
