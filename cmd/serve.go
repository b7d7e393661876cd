package cmd

import (
	"fmt"

	mcpserver "github.com/lukman83/offerscrap/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	sc, cleanup, err := buildScraper()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting offerscrap MCP server on stdio...")

	if err := mcpserver.NewServer(sc, version).ServeStdio(); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
