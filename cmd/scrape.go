package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukman83/offerscrap/internal/platform"
	"github.com/lukman83/offerscrap/internal/scrape"
	"github.com/lukman83/offerscrap/internal/ui"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape URL [URL...]",
	Short: "Scrape offers from one or more store offer pages",
	Example: `  offerscrap scrape https://www.ica.se/erbjudanden/ica-supermarket-cityhallen-vaxjo-1004104/
  offerscrap scrape --format table --sort percent https://www.willys.se/erbjudanden/butik`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("format", "json", "Output format: json, table")
	scrapeCmd.Flags().String("sort", "", "Sort offers: price, percent")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	sortKey, _ := cmd.Flags().GetString("sort")
	if err := checkOutputFlags(format, sortKey); err != nil {
		return err
	}

	sc, cleanup, err := buildScraper()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runBatch(ctx, cmd, sc, args)
	if err != nil {
		return err
	}
	if err := scrape.SortOffers(res.Items, sortKey); err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), res, format)
}

// runBatch scrapes urls with a spinner on stderr showing progress.
func runBatch(ctx context.Context, cmd *cobra.Command, sc *scrape.Scraper, urls []string) (scrape.Result, error) {
	spin := ui.NewSpinner(cmd.ErrOrStderr())
	spin.Start(fmt.Sprintf("Scraping %d page(s)...", len(urls)))
	ctx = platform.WithProgress(ctx, spin.Update)
	res, err := sc.ScrapeMany(ctx, urls)
	spin.Stop()
	if err != nil {
		return res, fmt.Errorf("scrape failed: %w", err)
	}
	return res, nil
}

func checkOutputFlags(format, sortKey string) error {
	switch format {
	case formatJSON, formatTable:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatTable)
	}
	return scrape.SortOffers(nil, sortKey)
}
