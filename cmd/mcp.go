package cmd

import (
	"github.com/huangsam/locmeta/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the locmeta MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents query a line log through standard tools.`,
	Args:    cobra.NoArgs,
	PreRunE: dataSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
