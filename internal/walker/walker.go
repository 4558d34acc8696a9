package walker

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/olxcrawl/olxcrawl/internal/extract"
	"github.com/olxcrawl/olxcrawl/internal/fetch"
	"github.com/olxcrawl/olxcrawl/internal/keyword"
	"github.com/olxcrawl/olxcrawl/internal/model"
)

// State is the walker's position in its lifecycle. A walk moves
// Fetching -> Extracting -> Advancing and loops back to Fetching until
// it ends in Exhausted or Failed.
type State int

// Walker states.
const (
	// StateFetching means the walker is retrieving a listing page.
	StateFetching State = iota

	// StateExtracting means the walker is pulling cards out of a page.
	StateExtracting

	// StateAdvancing means the walker is locating the next-page control.
	StateAdvancing

	// StateExhausted means pagination ended normally: no next-page
	// control, or a limit was reached.
	StateExhausted

	// StateFailed means a listing page could not be fetched. Records
	// emitted before the failure remain valid.
	StateFailed
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateExtracting:
		return "extracting"
	case StateAdvancing:
		return "advancing"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats summarizes one walk.
type Stats struct {
	// Pages is the number of listing pages processed.
	Pages int

	// Emitted is the number of records handed to the emit callback.
	Emitted int

	// Duplicates is the number of cards dropped because their link was
	// already seen in this walk.
	Duplicates int

	// Filtered is the number of cards dropped by the keyword filter.
	Filtered int

	// FetchFailures counts listing pages that could not be fetched.
	// A walk interrupted by cancellation leaves it at zero.
	FetchFailures int

	// FinalState is the state the walk ended in.
	FinalState State
}

// Walker paginates over listing pages and emits ad records.
type Walker struct {
	fetcher         fetch.Fetcher
	extractor       *extract.Extractor
	matcher         *keyword.Matcher
	selection       model.Selection
	maxPages        int
	recordLimit     int
	includeRegular  bool
	includePromoted bool
	logger          *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithMatcher sets the keyword filter. Cards whose title does not match
// are dropped. nil means no filtering.
func WithMatcher(m *keyword.Matcher) Option {
	return func(w *Walker) { w.matcher = m }
}

// WithMaxPages caps the number of listing pages walked. Zero means no
// page limit.
func WithMaxPages(n int) Option {
	return func(w *Walker) { w.maxPages = n }
}

// WithRecordLimit caps the number of emitted records. Zero means no
// record limit.
func WithRecordLimit(n int) Option {
	return func(w *Walker) { w.recordLimit = n }
}

// WithRegularAds includes or excludes non-promoted cards.
func WithRegularAds(include bool) Option {
	return func(w *Walker) { w.includeRegular = include }
}

// WithPromotedAds includes or excludes promoted cards.
func WithPromotedAds(include bool) Option {
	return func(w *Walker) { w.includePromoted = include }
}

// WithLogger sets the logger for walk diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) { w.logger = logger }
}

// New creates a Walker emitting the given field selection.
func New(fetcher fetch.Fetcher, extractor *extract.Extractor, selection model.Selection, opts ...Option) *Walker {
	w := &Walker{
		fetcher:         fetcher,
		extractor:       extractor,
		selection:       selection,
		includeRegular:  true,
		includePromoted: true,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk paginates from startURL and calls emit for every record that
// survives deduplication and the keyword filter. It returns the walk
// statistics; the error is non-nil only when the walk ended in
// StateFailed or emit itself failed. Records emitted before a failure
// are not rolled back.
func (w *Walker) Walk(ctx context.Context, startURL string, emit func(*model.Ad) error) (Stats, error) {
	stats := Stats{FinalState: StateExhausted}

	// Excluding both card classes cannot emit anything; treat it as an
	// immediately exhausted walk rather than fetching pages for nothing.
	if !w.includeRegular && !w.includePromoted {
		return stats, nil
	}

	// The matcher needs the title even when the caller did not select
	// it; the extracted title is cleared again before emission.
	extractSelection := w.selection
	forcedTitle := false
	if w.matcher.Size() > 0 && !w.selection.Has(model.FieldTitle) {
		extractSelection = extractSelection.With(model.FieldTitle)
		forcedTitle = true
	}

	seen := make(map[string]bool)
	visitedPages := make(map[string]bool)
	pageURL := startURL

	for {
		// An interrupt ends the walk but is not a page failure;
		// FetchFailures counts only pages that actually failed.
		if err := ctx.Err(); err != nil {
			stats.FinalState = StateFailed
			return stats, err
		}
		if w.maxPages > 0 && stats.Pages >= w.maxPages {
			w.logger.Debug("page limit reached", "pages", stats.Pages)
			return stats, nil
		}

		w.logger.Debug("walk", "state", StateFetching.String(), "url", pageURL)
		doc, err := w.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			stats.FinalState = StateFailed
			if ctx.Err() == nil {
				stats.FetchFailures++
			}
			return stats, fmt.Errorf("listing page %s: %w", pageURL, err)
		}
		stats.Pages++
		visitedPages[normalizeLink(pageURL)] = true

		w.logger.Debug("walk", "state", StateExtracting.String(), "url", pageURL)
		for _, ad := range w.extractor.ListingAds(doc, extractSelection, w.includeRegular, w.includePromoted) {
			normalized := normalizeLink(ad.Link)
			if seen[normalized] {
				stats.Duplicates++
				continue
			}
			seen[normalized] = true

			if !w.matcher.Matches(ad.MatchText()) {
				stats.Filtered++
				continue
			}
			if forcedTitle {
				ad.Title = ""
			}

			if err := emit(ad); err != nil {
				stats.FinalState = StateFailed
				return stats, fmt.Errorf("emit record: %w", err)
			}
			stats.Emitted++
			if w.recordLimit > 0 && stats.Emitted >= w.recordLimit {
				w.logger.Debug("record limit reached", "emitted", stats.Emitted)
				return stats, nil
			}
		}

		w.logger.Debug("walk", "state", StateAdvancing.String(), "url", pageURL)
		next, ok := w.extractor.NextPageURL(doc)
		if !ok {
			return stats, nil
		}
		// A next page pointing at an already-processed URL would loop
		// forever; treat it as the end of pagination.
		if visitedPages[normalizeLink(next)] {
			w.logger.Debug("next page already visited", "url", next)
			return stats, nil
		}
		pageURL = next
	}
}

// normalizeLink canonicalizes a link for deduplication: scheme and host
// are lowercased, the fragment is dropped and an empty path becomes "/".
func normalizeLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
