package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/lukman83/offerscrap/mcp"
	"github.com/spf13/cobra"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start MCP + JSON HTTP server",
	Long: `Start the MCP server over HTTP for remote access, together with
POST /scrape/start, GET /healthz and GET /metrics.`,
	RunE: runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	sc, cleanup, err := buildScraper()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%s", port)
	return mcpserver.NewServer(sc, version).ListenAndServe(ctx, addr, cfg.APIKey)
}
