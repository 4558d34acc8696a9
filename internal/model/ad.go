package model

import "strings"

// Kind classifies an ad by transaction type.
// The zero value ("") means the kind was not extracted at all, which is
// distinct from KindUnknown (a category was present but not recognized).
type Kind string

// Ad kinds recognized on listing and detail pages.
const (
	KindSale     Kind = "sale"
	KindRent     Kind = "rent"
	KindExchange Kind = "exchange"
	KindUnknown  Kind = "unknown"
)

// kindSynonyms maps lowercase category markers to kinds. The source site
// serves several locales, so the common Polish, Ukrainian and Russian
// markers are matched alongside the English ones.
var kindSynonyms = map[Kind][]string{
	KindSale:     {"sale", "sell", "sprzedam", "sprzedaż", "продам", "продаж"},
	KindRent:     {"rent", "wynajem", "wynajmę", "оренда", "аренда"},
	KindExchange: {"exchange", "swap", "zamiana", "zamienię", "обмін", "обмен"},
}

// ParseKind maps free-form category text to a Kind.
// Empty input yields the zero value; non-empty but unrecognized input
// yields KindUnknown so that downstream consumers can tell "no category
// element" apart from "category we do not understand".
func ParseKind(s string) Kind {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	for kind, markers := range kindSynonyms {
		for _, marker := range markers {
			if strings.Contains(s, marker) {
				return kind
			}
		}
	}
	return KindUnknown
}

// Ad is one classified ad record. Listing pages populate the summary
// subset (link, kind, title, price, location); detail pages add
// description, author and profile. Only Link is guaranteed.
//
// Design decision: We use one struct for both listing and detail records
// rather than two types because a detail record is a strict superset of a
// summary record, and the active Selection already states which fields
// are meaningful. Records are transient value objects owned by the stage
// that produced them; nothing mutates an Ad after it is handed off.
type Ad struct {
	// Link is the canonical ad URL. Always present; the walker
	// deduplicates by this value within a run.
	Link string

	// Kind is the transaction type, if a category could be extracted.
	Kind Kind

	// Title is the ad headline.
	Title string

	// Price is the parsed price. nil means unlisted or unparseable;
	// a "free" price is a non-nil Price with Free set.
	Price *Price

	// Location is the region/city text.
	Location string

	// Description is the free-text body from the detail page.
	Description string

	// Author is the seller's display name from the detail page.
	Author string

	// Profile is the seller's profile URL from the detail page.
	Profile string
}

// MatchText returns the text the keyword filter runs against:
// title and description joined by a single space, matching the
// loose relevance semantics of the site's own search.
func (a *Ad) MatchText() string {
	switch {
	case a.Title == "":
		return a.Description
	case a.Description == "":
		return a.Title
	default:
		return a.Title + " " + a.Description
	}
}

// Merge fills absent fields of a from seed. It never overwrites a field
// that is already populated; upstream stream values only back-fill what
// this stage could not extract.
func (a *Ad) Merge(seed *Ad) {
	if seed == nil {
		return
	}
	if a.Kind == "" {
		a.Kind = seed.Kind
	}
	if a.Title == "" {
		a.Title = seed.Title
	}
	if a.Price == nil {
		a.Price = seed.Price
	}
	if a.Location == "" {
		a.Location = seed.Location
	}
	if a.Description == "" {
		a.Description = seed.Description
	}
	if a.Author == "" {
		a.Author = seed.Author
	}
	if a.Profile == "" {
		a.Profile = seed.Profile
	}
}
