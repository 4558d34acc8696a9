package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/olxcrawl/olxcrawl/internal/config"
	"github.com/olxcrawl/olxcrawl/internal/model"
)

// ErrNotAdPage is returned by DetailAd when the page has no ad content
// container. This distinguishes "the ad was removed or the URL points
// somewhere else" from ordinary per-field extraction gaps.
var ErrNotAdPage = errors.New("extract: page is not an ad page")

// Extractor pulls records out of parsed pages using a selector profile.
type Extractor struct {
	sel    config.Selectors
	logger *slog.Logger
}

// New creates an Extractor with the given selector profile.
// A nil logger means slog.Default().
func New(sel config.Selectors, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{sel: sel, logger: logger}
}

// ListingAds extracts ad summaries from a listing page in document
// order. includeRegular and includePromoted choose which card classes
// are scanned. Cards without a resolvable link are dropped; every other
// field degrades independently to absent.
//
// Only fields present in selection are extracted, so unselected fields
// cost no selector work on large listing pages.
func (e *Extractor) ListingAds(doc *goquery.Document, selection model.Selection, includeRegular, includePromoted bool) []*model.Ad {
	var cardSelectors []string
	if includeRegular {
		cardSelectors = append(cardSelectors, e.sel.CardRegular)
	}
	if includePromoted {
		cardSelectors = append(cardSelectors, e.sel.CardPromoted)
	}
	if len(cardSelectors) == 0 {
		return nil
	}

	var ads []*model.Ad
	doc.Find(strings.Join(cardSelectors, ", ")).Each(func(i int, card *goquery.Selection) {
		ad := e.listingAd(doc, card, selection)
		if ad == nil {
			e.logger.Debug("card dropped: no link", "index", i)
			return
		}
		ads = append(ads, ad)
	})
	return ads
}

// listingAd extracts one card. It returns nil when the card has no link.
func (e *Extractor) listingAd(doc *goquery.Document, card *goquery.Selection, selection model.Selection) *model.Ad {
	href, ok := card.Find(e.sel.CardLink).First().Attr("href")
	if !ok {
		return nil
	}
	link := resolveURL(doc, href)
	if link == "" {
		return nil
	}

	ad := &model.Ad{Link: link}
	if selection.Has(model.FieldTitle) {
		ad.Title = text(card, e.sel.CardTitle)
	}
	if selection.Has(model.FieldKind) {
		ad.Kind = model.ParseKind(text(card, e.sel.CardKind))
	}
	if selection.Has(model.FieldLocation) {
		ad.Location = text(card, e.sel.CardLocation)
	}
	if selection.Has(model.FieldPrice) {
		raw := text(card, e.sel.CardPrice)
		if raw != "" {
			price, err := model.ParsePrice(raw)
			if err != nil {
				e.logger.Debug("price not parseable", "link", link, "text", raw)
			} else {
				ad.Price = price
			}
		}
	}
	return ad
}

// NextPageURL returns the absolute URL of the next listing page and
// whether a next-page control exists. Its absence ends pagination.
func (e *Extractor) NextPageURL(doc *goquery.Document) (string, bool) {
	control := doc.Find(e.sel.NextPage).First()
	if control.Length() == 0 {
		return "", false
	}
	href, ok := control.Attr("href")
	if !ok {
		return "", false
	}
	next := resolveURL(doc, href)
	if next == "" {
		return "", false
	}
	return next, true
}

// DetailAd extracts a full record from an ad detail page. pageURL
// becomes the record's link. A page without the ad content container
// yields ErrNotAdPage; every individual field degrades to absent.
func (e *Extractor) DetailAd(doc *goquery.Document, pageURL string, selection model.Selection) (*model.Ad, error) {
	if doc.Find(e.sel.DetailContent).Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotAdPage, pageURL)
	}

	ad := &model.Ad{Link: pageURL}
	if selection.Has(model.FieldTitle) {
		ad.Title = text(doc.Selection, e.sel.DetailTitle)
	}
	if selection.Has(model.FieldDescription) {
		ad.Description = text(doc.Selection, e.sel.DetailDescription)
	}
	if selection.Has(model.FieldKind) {
		ad.Kind = model.ParseKind(text(doc.Selection, e.sel.DetailKind))
	}
	if selection.Has(model.FieldPrice) {
		raw := text(doc.Selection, e.sel.DetailPrice)
		if raw != "" {
			price, err := model.ParsePrice(raw)
			if err != nil {
				e.logger.Debug("price not parseable", "link", pageURL, "text", raw)
			} else {
				ad.Price = price
			}
		}
	}
	if selection.Has(model.FieldAuthor) {
		ad.Author = text(doc.Selection, e.sel.DetailAuthor)
	}
	if selection.Has(model.FieldProfile) {
		if href, ok := doc.Find(e.sel.DetailProfile).First().Attr("href"); ok {
			ad.Profile = resolveURL(doc, href)
		}
	}
	if selection.Has(model.FieldLocation) {
		// The map image carries the location in its alt text.
		if alt, ok := doc.Find(e.sel.DetailLocation).First().Attr("alt"); ok {
			ad.Location = strings.TrimSpace(alt)
		}
	}

	e.logFieldGaps(ad, selection, pageURL)
	return ad, nil
}

// logFieldGaps records which selected fields came back absent.
func (e *Extractor) logFieldGaps(ad *model.Ad, selection model.Selection, pageURL string) {
	var gaps []string
	for _, f := range selection.Fields() {
		if ad.Value(f) == "" {
			gaps = append(gaps, string(f))
		}
	}
	if len(gaps) > 0 {
		e.logger.Debug("fields absent", "link", pageURL, "fields", strings.Join(gaps, ","))
	}
}

// text returns the trimmed text of the first match of selector under s,
// or "" when nothing matches.
func text(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(s.Find(selector).First().Text())
}

// resolveURL resolves href against the document URL, dropping
// non-navigational schemes. It returns "" when href cannot produce an
// http(s) URL.
func resolveURL(doc *goquery.Document, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := ref
	if doc.Url != nil {
		resolved = doc.Url.ResolveReference(ref)
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
