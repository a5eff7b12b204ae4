package cmd

import (
	"github.com/chartwerk/line-chart/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [series-file]",
	Short: "Start the linechart MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents probe series, estimate
spacing and classify charge segments via standard tools.

The configured series file, orientation and stores are the defaults for every tool call.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
