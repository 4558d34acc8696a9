package fetch

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves one page and parses it into a goquery document.
// The returned document has its Url field set to the fetched URL so
// relative links can be resolved against it.
//
// Implementations are safe for concurrent use; the resolver pool calls
// Fetch from multiple goroutines.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}
