package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/faces-detector/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP tool server on stdin/stdout",
	Long: `Serve the faces_detect, faces_annotate and faces_config tools over the
Model Context Protocol (JSON-RPC 2.0, one message per line on stdin/stdout).
Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	server.ServerVersion = Version
	a.log.WithField("version", Version).Debug("MCP server starting")

	return server.New(a.detector, a.colors, a.log).Run()
}
