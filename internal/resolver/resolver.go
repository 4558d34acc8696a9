package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/olxcrawl/olxcrawl/internal/extract"
	"github.com/olxcrawl/olxcrawl/internal/fetch"
	"github.com/olxcrawl/olxcrawl/internal/keyword"
	"github.com/olxcrawl/olxcrawl/internal/model"
)

// Outcome classifies the resolution of one link.
type Outcome int

// Resolution outcomes.
const (
	// Resolved means the record was extracted and passed the filter.
	Resolved Outcome = iota

	// FilteredOut means the record was extracted but no keyword
	// matched its title or description.
	FilteredOut

	// FetchFailed means the detail page could not be retrieved.
	FetchFailed

	// ParseFailed means the page was retrieved but is not an ad page.
	ParseFailed
)

// String returns the outcome name for logs and summaries.
func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case FilteredOut:
		return "filtered out"
	case FetchFailed:
		return "fetch failed"
	case ParseFailed:
		return "parse failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the resolution of one link. Ad is non-nil only for
// Resolved; Err is non-nil only for FetchFailed and ParseFailed.
type Result struct {
	URL     string
	Outcome Outcome
	Ad      *model.Ad
	Err     error
}

// Resolver resolves ad links into detail records.
type Resolver struct {
	fetcher     fetch.Fetcher
	extractor   *extract.Extractor
	matcher     *keyword.Matcher
	selection   model.Selection
	concurrency int
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMatcher sets the keyword filter. nil means no filtering.
func WithMatcher(m *keyword.Matcher) Option {
	return func(r *Resolver) { r.matcher = m }
}

// WithConcurrency sets the number of links resolved in parallel by
// ResolveAll. Values below 1 keep the default of 4.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver extracting the given field selection.
func New(fetcher fetch.Fetcher, extractor *extract.Extractor, selection model.Selection, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:     fetcher,
		extractor:   extractor,
		selection:   selection,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves one seed. The seed's link names the detail page;
// any other populated seed fields back-fill what the page itself does
// not yield.
func (r *Resolver) Resolve(ctx context.Context, seed *model.Ad) Result {
	link := seed.Link

	// The matcher needs title and description regardless of the output
	// selection; force-extracted fields are cleared again below.
	extractSelection := r.selection
	forcedTitle, forcedDescription := false, false
	if r.matcher.Size() > 0 {
		if !extractSelection.Has(model.FieldTitle) {
			extractSelection = extractSelection.With(model.FieldTitle)
			forcedTitle = true
		}
		if !extractSelection.Has(model.FieldDescription) {
			extractSelection = extractSelection.With(model.FieldDescription)
			forcedDescription = true
		}
	}

	doc, err := r.fetcher.Fetch(ctx, link)
	if err != nil {
		r.logger.Debug("detail fetch failed", "url", link, "error", err)
		return Result{URL: link, Outcome: FetchFailed, Err: err}
	}

	ad, err := r.extractor.DetailAd(doc, link, extractSelection)
	if err != nil {
		if errors.Is(err, extract.ErrNotAdPage) {
			r.logger.Debug("not an ad page", "url", link)
			return Result{URL: link, Outcome: ParseFailed, Err: err}
		}
		return Result{URL: link, Outcome: ParseFailed, Err: err}
	}
	ad.Merge(seed)

	if !r.matcher.Matches(ad.MatchText()) {
		return Result{URL: link, Outcome: FilteredOut}
	}

	if forcedTitle {
		ad.Title = ""
	}
	if forcedDescription {
		ad.Description = ""
	}
	return Result{URL: link, Outcome: Resolved, Ad: ad}
}

// ResolveAll resolves seeds concurrently and calls handle for every
// result in completion order. handle is called from a single goroutine
// at a time, so callers need no locking of their own. ResolveAll stops
// accepting seeds when ctx is canceled and returns ctx.Err(); per-link
// failures are reported through their Result, never as an error.
func (r *Resolver) ResolveAll(parent context.Context, seeds <-chan *model.Ad, handle func(Result)) error {
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(r.concurrency)

	var mu sync.Mutex
	deliver := func(res Result) {
		mu.Lock()
		defer mu.Unlock()
		handle(res)
	}

intake:
	for {
		select {
		case <-ctx.Done():
			break intake
		case seed, ok := <-seeds:
			if !ok {
				break intake
			}
			g.Go(func() error {
				deliver(r.Resolve(ctx, seed))
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Wait cancels the derived context on return, so completion is
	// judged against the caller's context.
	return parent.Err()
}
