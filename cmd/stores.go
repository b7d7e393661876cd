package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lukman83/offerscrap/internal/models"
	"github.com/lukman83/offerscrap/internal/platform"
	"github.com/lukman83/offerscrap/internal/store"
	"github.com/spf13/cobra"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List supported stores",
	Long:  "List supported stores and the URL fragment that routes a URL to each.",
	Args:  cobra.NoArgs,
	RunE:  runStores,
}

func init() {
	rootCmd.AddCommand(storesCmd)
}

func runStores(cmd *cobra.Command, _ []string) error {
	opts := store.DefaultOptions()
	registry := platform.NewRegistry(store.NewICA(opts), store.NewWillys(cfg.WillysStore, opts))

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Store", "URL fragment", "Session setup"})
	for _, a := range registry.List() {
		setup := "-"
		if a.Store() == models.StoreWillys {
			setup = "select " + cfg.WillysStore
		}
		t.AppendRow(table.Row{a.Store(), a.Domain(), setup})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
