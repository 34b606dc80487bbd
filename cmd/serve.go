package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/dbgmodel/internal/mcpserv"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the model over MCP on stdio",
	Long: `Serve the configured model over the Model Context Protocol on
stdin/stdout, exposing "query" and "singleton" tools for agent use.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		return mcpserv.ServeStdio(s, version)
	},
}
