package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the behavior of polite clearnet crawling: generous
// enough to survive a slow marketplace, conservative enough not to trip
// rate limiting.
const (
	// DefaultTimeout is the per-request timeout. Listing pages of large
	// marketplaces routinely take several seconds under load, so 30
	// seconds avoids false fetch failures without hanging a run forever.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryBudget is the number of retries after the first
	// attempt for transient failures. Two retries recovers from the
	// common blips (connection reset, 503 burst) without turning a dead
	// page into a minute of waiting.
	DefaultRetryBudget = 2

	// DefaultRetryBackoff is the wait before the first retry. The wait
	// doubles on each subsequent retry.
	DefaultRetryBackoff = 500 * time.Millisecond

	// DefaultRequestsPerSecond caps the request rate against the target
	// site. This is a politeness setting; two requests per second keeps
	// a full crawl fast while staying far below interactive-user rates.
	DefaultRequestsPerSecond = 2

	// DefaultConcurrency is the number of detail pages resolved in
	// parallel. The rate limiter is shared across workers, so this
	// bounds in-flight requests rather than multiplying the rate.
	DefaultConcurrency = 4

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB covers any real listing or ad page while preventing memory
	// exhaustion from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies the crawler in HTTP requests.
	// A descriptive User-Agent lets site operators attribute traffic.
	DefaultUserAgent = "olxcrawl/1.0 (+https://github.com/olxcrawl/olxcrawl)"

	// AppName is the application name used for XDG directory paths and
	// the dotfile name.
	AppName = "olxcrawl"
)

// Config holds all runtime options for the crawler.
// It is populated from CLI flags (and optionally a YAML file) and passed
// through the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Timeout is the timeout for each HTTP request, or for each page
	// render when the browser fetcher is active.
	Timeout time.Duration

	// ProxyURI routes all traffic through a proxy when non-empty.
	// Supported schemes: socks5, http, https. Credentials may be
	// embedded in the URI; they are redacted from log output.
	ProxyURI string

	// Render fetches pages through a headless browser instead of plain
	// HTTP. Needed when the site serves listing content via JavaScript.
	Render bool

	// Headless controls browser visibility when Render is set. It has
	// no effect on the plain HTTP fetcher.
	Headless bool

	// RetryBudget is the number of retries after the first attempt for
	// transient fetch failures. Zero disables retrying.
	RetryBudget int

	// RetryBackoff is the wait before the first retry; it doubles on
	// each subsequent retry.
	RetryBackoff time.Duration

	// RequestsPerSecond caps the request rate. Zero means unlimited.
	RequestsPerSecond float64

	// Concurrency is the number of detail pages resolved in parallel.
	Concurrency int

	// MaxPages is the maximum number of listing pages to walk.
	// Zero means no page limit.
	MaxPages int

	// Limit is the maximum number of records to emit. Zero means no
	// record limit.
	Limit int

	// Keywords are the relevance filter patterns. Empty means no
	// filtering: every record passes.
	Keywords []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Progress enables a progress indicator on stderr.
	Progress bool

	// ReportFile is the output path for the Markdown run report.
	// Empty disables report generation.
	ReportFile string

	// ConfigFilePath is the explicit path to the configuration file.
	// If empty, the tool searches for .olxcrawl in the current directory
	// and then in the XDG config directory.
	ConfigFilePath string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Headers are extra HTTP headers sent with every request, loaded
	// from the configuration file.
	Headers map[string]string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// Selectors is the active selector profile. Defaults cover the
	// current site markup; the configuration file can override
	// individual selectors when the markup shifts.
	Selectors Selectors
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		Headless:          true,
		RetryBudget:       DefaultRetryBudget,
		RetryBackoff:      DefaultRetryBackoff,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Concurrency:       DefaultConcurrency,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		Selectors:         DefaultSelectors(),
	}
}

// XDGConfigDir returns the XDG config directory for the crawler.
// On Linux: ~/.config/olxcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
//
// Design decision: We validate once after CLI parsing, before any
// fetching begins, and return the first error found: fixing one error
// often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RetryBudget < 0 {
		return ErrInvalidRetryBudget
	}
	if c.RetryBackoff < 0 {
		return ErrInvalidRetryBackoff
	}
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Limit < 0 {
		return ErrInvalidLimit
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
