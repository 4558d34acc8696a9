package config

// Selectors is the profile of CSS selectors used to pull record fields
// out of listing and detail pages. Every selector is independent: a
// selector matching nothing degrades its one field to absent and never
// fails the page.
//
// The defaults cover the current site markup. When the markup shifts,
// individual selectors can be overridden from the configuration file
// without rebuilding the tool.
type Selectors struct {
	// CardRegular selects non-promoted ad cards on a listing page.
	CardRegular string `yaml:"cardRegular,omitempty"`

	// CardPromoted selects promoted ad cards on a listing page.
	CardPromoted string `yaml:"cardPromoted,omitempty"`

	// CardLink selects the ad link inside a card. The href attribute is
	// the record's link; a card without it is dropped.
	CardLink string `yaml:"cardLink,omitempty"`

	// CardTitle selects the ad title inside a card.
	CardTitle string `yaml:"cardTitle,omitempty"`

	// CardPrice selects the price text inside a card.
	CardPrice string `yaml:"cardPrice,omitempty"`

	// CardLocation selects the location text inside a card.
	CardLocation string `yaml:"cardLocation,omitempty"`

	// CardKind selects the category/badge text inside a card.
	CardKind string `yaml:"cardKind,omitempty"`

	// NextPage selects the next-page control on a listing page. Its
	// absence ends pagination.
	NextPage string `yaml:"nextPage,omitempty"`

	// DetailContent selects the ad content container on a detail page.
	// Its absence means the page is not an ad page at all.
	DetailContent string `yaml:"detailContent,omitempty"`

	// DetailTitle selects the title on a detail page.
	DetailTitle string `yaml:"detailTitle,omitempty"`

	// DetailDescription selects the description body on a detail page.
	DetailDescription string `yaml:"detailDescription,omitempty"`

	// DetailPrice selects the price text on a detail page.
	DetailPrice string `yaml:"detailPrice,omitempty"`

	// DetailAuthor selects the seller name on a detail page.
	DetailAuthor string `yaml:"detailAuthor,omitempty"`

	// DetailProfile selects the anchor whose href is the seller's
	// profile URL.
	DetailProfile string `yaml:"detailProfile,omitempty"`

	// DetailLocation selects the map image whose alt text carries the
	// ad's location.
	DetailLocation string `yaml:"detailLocation,omitempty"`

	// DetailKind selects the breadcrumb entry carrying the category on
	// a detail page.
	DetailKind string `yaml:"detailKind,omitempty"`
}

// DefaultSelectors returns the selector profile for the current site
// markup.
func DefaultSelectors() Selectors {
	return Selectors{
		CardRegular:       ".offer:not(.promoted)",
		CardPromoted:      ".offer.promoted",
		CardLink:          "a",
		CardTitle:         ".title-cell strong",
		CardPrice:         ".price strong",
		CardLocation:      ".bottom-cell .breadcrumb",
		CardKind:          ".title-cell .category",
		NextPage:          `span[data-cy="page-link-next"] a, a[data-cy="pagination-forward"]`,
		DetailContent:     `div[data-cy="ad_description"]`,
		DetailTitle:       `h1[data-cy="ad_title"]`,
		DetailDescription: `div[data-cy="ad_description"] div`,
		DetailPrice:       `div[data-testid="ad-price-container"] h3`,
		DetailAuthor:      `a[name="user_ads"] h2`,
		DetailProfile:     `a[name="user_ads"]`,
		DetailLocation:    ".qa-static-ad-map-container > img",
		DetailKind:        `ol[data-testid="breadcrumbs"] li:nth-last-child(2)`,
	}
}

// Merge overrides the receiver's selectors with the non-empty fields of
// other. It returns the merged profile; the receiver is unchanged.
func (s Selectors) Merge(other Selectors) Selectors {
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&s.CardRegular, other.CardRegular)
	merge(&s.CardPromoted, other.CardPromoted)
	merge(&s.CardLink, other.CardLink)
	merge(&s.CardTitle, other.CardTitle)
	merge(&s.CardPrice, other.CardPrice)
	merge(&s.CardLocation, other.CardLocation)
	merge(&s.CardKind, other.CardKind)
	merge(&s.NextPage, other.NextPage)
	merge(&s.DetailContent, other.DetailContent)
	merge(&s.DetailTitle, other.DetailTitle)
	merge(&s.DetailDescription, other.DetailDescription)
	merge(&s.DetailPrice, other.DetailPrice)
	merge(&s.DetailAuthor, other.DetailAuthor)
	merge(&s.DetailProfile, other.DetailProfile)
	merge(&s.DetailLocation, other.DetailLocation)
	merge(&s.DetailKind, other.DetailKind)
	return s
}
