package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olxcrawl/olxcrawl/internal/extract"
	"github.com/olxcrawl/olxcrawl/internal/model"
	"github.com/olxcrawl/olxcrawl/internal/report"
	"github.com/olxcrawl/olxcrawl/internal/stream"
	"github.com/olxcrawl/olxcrawl/internal/walker"
)

// listFields are the fields the list command can extract from cards.
var listFields = []model.Field{
	model.FieldLink,
	model.FieldKind,
	model.FieldTitle,
	model.FieldPrice,
	model.FieldLocation,
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <listing-url>",
		Short: "Walk listing pages and stream ad summaries as CSV",
		Long: `List walks a search result or category listing, follows the next-page
control until pagination ends, and streams one CSV record per ad to
stdout. Records appear as soon as their page is processed, so the
output can feed another command while the walk is still running.

Each ad is emitted once even when it reappears on later pages.
If a listing page fails to fetch, the records collected so far remain
on stdout and the command exits with code 1.

Examples:
  # Links only
  olxcrawl list "https://www.olx.pl/oferty/q-rower/"

  # Titles and prices, at most 3 pages
  olxcrawl list --title --price --max-pages 3 "https://www.olx.pl/oferty/q-rower/"

  # Feed the detail command
  olxcrawl list "https://www.olx.pl/oferty/q-rower/" | olxcrawl detail --all`,
		Args: cobra.ExactArgs(1),
		RunE: runListCmd,
	}

	// Field selection flags
	cmd.Flags().Bool("link", true, "Include the ad link")
	cmd.Flags().Bool("kind", false, "Include the ad kind (sale, rent, exchange)")
	cmd.Flags().Bool("title", false, "Include the ad title")
	cmd.Flags().Bool("price", false, "Include the price")
	cmd.Flags().Bool("location", false, "Include the location")
	cmd.Flags().BoolP("all", "a", false, "Include every field the listing carries")

	// Card class flags
	cmd.Flags().Bool("skip-regular", false, "Skip non-promoted ads")
	cmd.Flags().Bool("skip-promoted", false, "Skip promoted ads")

	// Walk limits
	cmd.Flags().IntP("max-pages", "p", 0, "Stop after this many listing pages (0 = no limit)")
	cmd.Flags().IntP("limit", "n", 0, "Stop after this many records (0 = no limit)")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, args []string) error {
	startURL := args[0]
	if err := validateStartURL(startURL); err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit, _ = cmd.Flags().GetInt("limit")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	selection, err := selectionFromFlags(cmd, listFields)
	if err != nil {
		return err
	}
	matcher, err := newMatcher(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	fetcher, cleanup, err := newFetcher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	skipRegular, _ := cmd.Flags().GetBool("skip-regular")
	skipPromoted, _ := cmd.Flags().GetBool("skip-promoted")

	w := walker.New(fetcher, extract.New(cfg.Selectors, logger), selection,
		walker.WithMatcher(matcher),
		walker.WithMaxPages(cfg.MaxPages),
		walker.WithRecordLimit(cfg.Limit),
		walker.WithRegularAds(!skipRegular),
		walker.WithPromotedAds(!skipPromoted),
		walker.WithLogger(logger),
	)

	out := stream.NewWriter(cmd.OutOrStdout(), selection)
	bar := newProgress(cfg, "collecting ads")

	start := time.Now()
	stats, walkErr := w.Walk(ctx, startURL, func(ad *model.Ad) error {
		if bar != nil {
			_ = bar.Add(1)
		}
		return out.Write(ad)
	})
	if err := out.Flush(); err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	summary := &report.Summary{
		Command:    "list",
		Target:     startURL,
		Pages:      stats.Pages,
		Emitted:    stats.Emitted,
		Filtered:   stats.Filtered,
		Duplicates: stats.Duplicates,
		Failed:     stats.FetchFailures,
		Elapsed:    time.Since(start),
	}
	if walkErr != nil {
		logger.Warn("walk ended early", "error", walkErr, "state", stats.FinalState.String())
	}
	if err := finishRun(cfg, summary); err != nil {
		return err
	}
	// A walk can also end early without a fetch failure, e.g. when the
	// output stream breaks or a signal cancels the run. The records
	// already streamed stay valid, so that is a partial result too.
	if walkErr != nil {
		return &exitError{code: exitPartial, err: walkErr}
	}
	return nil
}
