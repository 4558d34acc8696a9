package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olxcrawl/olxcrawl/internal/extract"
	"github.com/olxcrawl/olxcrawl/internal/model"
	"github.com/olxcrawl/olxcrawl/internal/report"
	"github.com/olxcrawl/olxcrawl/internal/resolver"
	"github.com/olxcrawl/olxcrawl/internal/stream"
)

// detailFields are the fields the detail command can extract from ad
// pages.
var detailFields = []model.Field{
	model.FieldLink,
	model.FieldKind,
	model.FieldTitle,
	model.FieldPrice,
	model.FieldLocation,
	model.FieldDescription,
	model.FieldAuthor,
	model.FieldProfile,
}

// NewDetailCmd creates the detail command.
func NewDetailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail [ad-url ...]",
		Short: "Resolve ad detail pages and stream full records as CSV",
		Long: `Detail fetches each ad's page and streams one CSV record per ad to
stdout. Ads come from the arguments, or from stdin when no arguments
are given: stdin accepts either the CSV stream produced by "list" or
bare ad URLs one per line.

Fields already present in an input CSV stream survive into the output
when the ad page does not yield them itself. Ads whose page cannot be
fetched are counted and reported; the run continues and exits with
code 1 when any ad failed.

Examples:
  # One ad, every field
  olxcrawl detail --all "https://www.olx.pl/d/oferta/rower-ID1.html"

  # Chained after list, keyword-filtered on the full description
  olxcrawl list "https://www.olx.pl/oferty/q-rower/" |
    olxcrawl detail --description --price --keywords shimano`,
		Args: cobra.ArbitraryArgs,
		RunE: runDetailCmd,
	}

	// Field selection flags
	cmd.Flags().Bool("link", true, "Include the ad link")
	cmd.Flags().Bool("kind", false, "Include the ad kind (sale, rent, exchange)")
	cmd.Flags().Bool("title", false, "Include the ad title")
	cmd.Flags().Bool("price", false, "Include the price")
	cmd.Flags().Bool("location", false, "Include the location")
	cmd.Flags().Bool("description", false, "Include the description")
	cmd.Flags().Bool("author", false, "Include the seller name")
	cmd.Flags().Bool("profile", false, "Include the seller profile URL")
	cmd.Flags().BoolP("all", "a", false, "Include every field the ad page carries")

	cmd.Flags().IntP("concurrency", "C", 0, "Number of ads resolved in parallel")

	return cmd
}

// runDetailCmd executes the detail command.
func runDetailCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	selection, err := selectionFromFlags(cmd, detailFields)
	if err != nil {
		return err
	}
	matcher, err := newMatcher(cmd, cfg)
	if err != nil {
		return err
	}

	seeds, target, err := seedSource(cmd, args)
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

	r := resolver.New(fetcher, extract.New(cfg.Selectors, logger), selection,
		resolver.WithMatcher(matcher),
		resolver.WithConcurrency(cfg.Concurrency),
		resolver.WithLogger(logger),
	)

	out := stream.NewWriter(cmd.OutOrStdout(), selection)
	bar := newProgress(cfg, "resolving ads")

	seedCh := make(chan *model.Ad)
	readErrCh := make(chan error, 1)
	go func() {
		defer close(seedCh)
		readErrCh <- pumpSeeds(ctx, seeds, seedCh)
	}()

	summary := &report.Summary{Command: "detail", Target: target}
	start := time.Now()

	var writeErr error
	resolveErr := r.ResolveAll(ctx, seedCh, func(res resolver.Result) {
		if bar != nil {
			_ = bar.Add(1)
		}
		switch res.Outcome {
		case resolver.Resolved:
			if writeErr == nil {
				if err := out.Write(res.Ad); err != nil {
					writeErr = err
					cancel()
					return
				}
				summary.Emitted++
			}
		case resolver.FilteredOut:
			summary.Filtered++
		case resolver.FetchFailed, resolver.ParseFailed:
			summary.Failed++
			logger.Warn("ad not resolved", "url", res.URL, "outcome", res.Outcome.String(), "error", res.Err)
		}
	})

	if err := out.Flush(); err != nil && writeErr == nil {
		writeErr = err
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	summary.Elapsed = time.Since(start)

	if writeErr != nil {
		return writeErr
	}
	if readErr := <-readErrCh; readErr != nil && !errors.Is(readErr, context.Canceled) {
		return readErr
	}

	if err := finishRun(cfg, summary); err != nil {
		return err
	}
	if resolveErr != nil {
		return &exitError{code: exitPartial, err: errInterrupted}
	}
	return nil
}

// seedSource chooses where ads come from: arguments win, otherwise
// stdin. A terminal stdin with no arguments is a usage error, not a
// hang waiting for input nobody will type.
func seedSource(cmd *cobra.Command, args []string) (*stream.Reader, string, error) {
	if len(args) > 0 {
		var buf []byte
		for _, arg := range args {
			if err := validateStartURL(arg); err != nil {
				return nil, "", err
			}
			buf = append(buf, arg...)
			buf = append(buf, '\n')
		}
		r, err := stream.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, "", err
		}
		return r, fmt.Sprintf("%d argument URL(s)", len(args)), nil
	}

	stdin := cmd.InOrStdin()
	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return nil, "", errors.New("no ad URLs: pass them as arguments or pipe a record stream to stdin")
		}
	}

	r, err := stream.NewReader(stdin)
	if err != nil {
		return nil, "", err
	}
	return r, "stdin", nil
}

// pumpSeeds feeds records from the reader into the channel until EOF or
// cancellation.
func pumpSeeds(ctx context.Context, r *stream.Reader, seedCh chan<- *model.Ad) error {
	for {
		ad, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case seedCh <- ad:
		}
	}
}
