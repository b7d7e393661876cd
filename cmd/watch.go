package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukman83/offerscrap/internal/scrape"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch URL [URL...]",
	Short: "Re-scrape offer pages on a cron schedule",
	Long: `Re-scrape the given offer pages on a cron schedule and print each result.
A run that is still going when the next one is due is not overlapped.`,
	Example: `  offerscrap watch --schedule "0 7 * * MON" https://www.willys.se/erbjudanden/butik`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runWatch,
}

func init() {
	watchCmd.Flags().String("schedule", "@every 6h", "Cron expression (5 fields) or descriptor such as @daily")
	watchCmd.Flags().Bool("now", true, "Run once immediately before waiting for the schedule")
	watchCmd.Flags().String("format", "json", "Output format: json, table")
	watchCmd.Flags().String("sort", "", "Sort offers: price, percent")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	schedule, _ := cmd.Flags().GetString("schedule")
	now, _ := cmd.Flags().GetBool("now")
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

	entry := log.WithField("component", "watch")
	run := func() {
		res, err := sc.ScrapeMany(ctx, args)
		if err != nil {
			entry.WithError(err).Error("scheduled run failed")
			return
		}
		if err := scrape.SortOffers(res.Items, sortKey); err != nil {
			entry.WithError(err).Error("sort offers")
			return
		}
		if err := writeResult(cmd.OutOrStdout(), res, format); err != nil {
			entry.WithError(err).Error("write result")
		}
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	if now {
		run()
	}
	c.Start()
	entry.WithField("schedule", schedule).Info("watching offer pages")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
