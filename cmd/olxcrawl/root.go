package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olxcrawl/olxcrawl/internal/config"
)

// Exit codes. Partial failures still stream every record that could be
// produced; the exit code tells scripts the output is incomplete.
const (
	exitOK      = 0
	exitPartial = 1
	exitFatal   = 2
)

// exitError carries an exit code alongside the error shown to the user.
type exitError struct {
	code int
	err  error
}

// Error implements the error interface.
func (e *exitError) Error() string { return e.err.Error() }

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *exitError) Unwrap() error { return e.err }

// NewRootCmd creates the root command for olxcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "olxcrawl",
		Short: "Crawl marketplace listings into a CSV record stream",
		Long: `olxcrawl walks classifieds listing pages and ad detail pages and
streams the extracted records as CSV, one record per line, flushed as
soon as each record exists.

Commands compose into pipelines: "list" emits ad summaries from a
search result, "detail" reads that stream (or bare URLs) and enriches
each ad from its detail page.

Examples:
  # Collect ad links and titles from a search
  olxcrawl list --title "https://www.olx.pl/oferty/q-rower/"

  # Full pipeline: filter by keywords, resolve details
  olxcrawl list "https://www.olx.pl/oferty/q-rower/" |
    olxcrawl detail --all --keywords gorski,mtb > ads.csv`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("proxy", "",
		"Route traffic through a proxy (socks5://, http:// or https:// URI)")
	cmd.PersistentFlags().Bool("render", false,
		"Fetch pages through a headless browser instead of plain HTTP")
	cmd.PersistentFlags().Bool("headless", true,
		"Hide the browser window (only meaningful with --render)")
	cmd.PersistentFlags().StringSliceP("keywords", "k", nil,
		"Keep only ads whose title or description contains one of these keywords")
	cmd.PersistentFlags().String("keyword-file", "",
		"Read keywords from a file, one per line")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .olxcrawl in current directory or XDG config)")
	cmd.PersistentFlags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.PersistentFlags().String("report", "",
		"Write a Markdown run report to this file")
	cmd.PersistentFlags().Bool("progress", false,
		"Show a progress indicator on stderr")

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewDetailCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and maps errors to exit codes.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "olxcrawl: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return exitFatal
	}
	return exitOK
}
