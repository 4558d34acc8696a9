package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// Browser is the rendered fetcher. It drives a headless Chrome instance
// and returns the DOM after JavaScript has assembled the page. One
// browser process serves all fetches; each Fetch runs in its own tab.
type Browser struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancelBrow  context.CancelFunc
	timeout     time.Duration
	logger      *slog.Logger
}

// BrowserOptions configure a Browser.
type BrowserOptions struct {
	// Headless hides the browser window. Disable for debugging.
	Headless bool

	// ProxyURI routes browser traffic through a proxy when non-empty.
	ProxyURI string

	// UserAgent overrides the browser's User-Agent when non-empty.
	UserAgent string

	// Timeout is the per-page render timeout.
	Timeout time.Duration

	// Logger receives fetch diagnostics. nil means slog.Default().
	Logger *slog.Logger
}

// NewBrowser starts the browser process. Callers must Close the browser
// to release it.
func NewBrowser(ctx context.Context, opts BrowserOptions) (*Browser, error) {
	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		// Images never carry record fields, skipping them cuts page
		// weight substantially.
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	if opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ProxyURI != "" {
		execOpts = append(execOpts, chromedp.ProxyServer(opts.ProxyURI))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, execOpts...)
	browserCtx, cancelBrow := chromedp.NewContext(allocCtx)

	// Starting the browser eagerly surfaces a missing Chrome binary at
	// construction time instead of on the first fetch.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrow()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Browser{
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancelBrow:  cancelBrow,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Fetch renders pageURL in a fresh tab and parses the resulting DOM.
func (b *Browser) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	tab, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()

	tabCtx, cancel := context.WithTimeout(tab, b.timeout)
	defer cancel()

	// Stop rendering early when the caller's context is canceled; the
	// tab context descends from the browser, not from ctx.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}
	b.logger.Debug("page rendered", "url", pageURL, "bytes", len(html))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	if u, err := url.Parse(pageURL); err == nil {
		doc.Url = u
	}
	return doc, nil
}

// Close shuts the browser process down.
func (b *Browser) Close() {
	b.cancelBrow()
	b.cancelAlloc()
}
