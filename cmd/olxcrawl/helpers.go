package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/olxcrawl/olxcrawl/internal/config"
	"github.com/olxcrawl/olxcrawl/internal/fetch"
	"github.com/olxcrawl/olxcrawl/internal/keyword"
	"github.com/olxcrawl/olxcrawl/internal/log"
	"github.com/olxcrawl/olxcrawl/internal/model"
	"github.com/olxcrawl/olxcrawl/internal/report"
)

// buildConfig assembles a Config from the persistent flags and the
// optional configuration file. Precedence: flags > file > defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, _ := cmd.Flags().GetString("config")
	cfg.ConfigFilePath = configPath
	if found := config.FindConfigFile(configPath); found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", found, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, err
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	cfg.ProxyURI, _ = cmd.Flags().GetString("proxy")
	cfg.Render, _ = cmd.Flags().GetBool("render")
	cfg.Headless, _ = cmd.Flags().GetBool("headless")
	cfg.Keywords, _ = cmd.Flags().GetStringSlice("keywords")
	cfg.ReportFile, _ = cmd.Flags().GetString("report")
	cfg.Progress, _ = cmd.Flags().GetBool("progress")
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	return cfg, nil
}

// newMatcher builds the keyword filter from --keywords and
// --keyword-file. Both sources combine into one automaton.
func newMatcher(cmd *cobra.Command, cfg *config.Config) (*keyword.Matcher, error) {
	keywords := cfg.Keywords

	keywordFile, _ := cmd.Flags().GetString("keyword-file")
	if keywordFile != "" {
		fromFile, err := keyword.LoadFile(keywordFile)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, fromFile.Keywords()...)
	}

	return keyword.New(keywords), nil
}

// newFetcher builds the configured fetcher. The returned cleanup
// releases browser resources and is a no-op for the HTTP client.
func newFetcher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (fetch.Fetcher, func(), error) {
	if cfg.Render {
		browser, err := fetch.NewBrowser(ctx, fetch.BrowserOptions{
			Headless:  cfg.Headless,
			ProxyURI:  cfg.ProxyURI,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			Logger:    logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return browser, browser.Close, nil
	}

	client, err := fetch.NewClient(cfg.ProxyURI,
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithRetries(cfg.RetryBudget),
		fetch.WithBackoff(cfg.RetryBackoff),
		fetch.WithRateLimit(cfg.RequestsPerSecond),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {}, nil
}

// setupLogger creates the run logger and installs it as the default.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// validateStartURL checks that the list target is an absolute http(s)
// URL before any network work happens.
func validateStartURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid start URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid start URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid start URL %q: missing host", raw)
	}
	return nil
}

// newProgress creates the stderr progress spinner, or nil when progress
// is off. Total is unknown up front, so the spinner counts records.
func newProgress(cfg *config.Config, description string) *progressbar.ProgressBar {
	if !cfg.Progress {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
	)
}

// finishRun writes the text summary to stderr, the optional Markdown
// report, and maps failures to the partial exit code.
func finishRun(cfg *config.Config, summary *report.Summary) error {
	if err := summary.WriteText(os.Stderr); err != nil {
		return err
	}

	if cfg.ReportFile != "" {
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		if err := report.NewMarkdownWriter(f).Write(summary); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return &exitError{
			code: exitPartial,
			err:  fmt.Errorf("completed with %d failed page(s); emitted records are partial", summary.Failed),
		}
	}
	return nil
}

// selectionFromFlags builds the output field selection. The link is
// selected by default and dropped only with an explicit --link=false;
// --all selects every field the command supports.
func selectionFromFlags(cmd *cobra.Command, supported []model.Field) (model.Selection, error) {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return model.NewSelection(supported...), nil
	}

	var selection model.Selection
	if withLink, err := cmd.Flags().GetBool("link"); err != nil || withLink {
		selection = selection.With(model.FieldLink)
	}
	for _, f := range supported {
		if f == model.FieldLink {
			continue
		}
		if enabled, err := cmd.Flags().GetBool(string(f)); err == nil && enabled {
			selection = selection.With(f)
		}
	}
	if selection.IsEmpty() {
		return model.Selection{}, errors.New("no output fields: --link=false needs at least one field flag")
	}
	return selection, nil
}

// errInterrupted is returned when a signal canceled the run.
var errInterrupted = errors.New("interrupted")
