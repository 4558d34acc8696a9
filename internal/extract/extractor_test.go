package extract

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/olxcrawl/olxcrawl/internal/config"
	"github.com/olxcrawl/olxcrawl/internal/model"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<table>
<tr class="offer promoted">
  <td class="title-cell"><a href="/d/oferta/promowany-rower-ID1.html"><strong>Promowany rower</strong></a></td>
  <td class="price"><strong>2 500 zł</strong></td>
  <td class="bottom-cell"><span class="breadcrumb">Warszawa</span></td>
</tr>
<tr class="offer">
  <td class="title-cell"><a href="/d/oferta/rower-gorski-ID2.html"><strong>Rower górski</strong></a></td>
  <td class="price"><strong>1 200 zł do negocjacji</strong></td>
  <td class="bottom-cell"><span class="breadcrumb">Kraków</span></td>
</tr>
<tr class="offer">
  <td class="title-cell"><a href="https://www.olx.pl/d/oferta/rama-ID3.html"><strong>Rama</strong></a></td>
</tr>
<tr class="offer">
  <td class="title-cell"><strong>Karta bez linku</strong></td>
</tr>
</table>
<span data-cy="page-link-next"><a href="?page=2">dalej</a></span>
</body></html>`

const detailPage = `<!DOCTYPE html>
<html><body>
<ol data-testid="breadcrumbs"><li>OLX</li><li>Sport</li><li>Sprzedam</li><li>Rowery</li></ol>
<h1 data-cy="ad_title">Rower górski Kross</h1>
<div data-testid="ad-price-container"><h3>1 200 zł</h3></div>
<div data-cy="ad_description"><div>Sprawny rower, mało używany.</div></div>
<a name="user_ads" href="/oferty/uzytkownik/abc12/"><h2>Marek</h2></a>
<div class="qa-static-ad-map-container"><img alt="Kraków, Podgórze" src="map.png"></div>
</body></html>`

func parse(t *testing.T, page, base string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(base)
	if err != nil {
		t.Fatal(err)
	}
	doc.Url = u
	return doc
}

func allFields() model.Selection {
	return model.NewSelection(model.FieldOrder...)
}

func TestExtractorListingAds(t *testing.T) {
	t.Parallel()

	e := New(config.DefaultSelectors(), nil)

	t.Run("both card classes in document order", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, listingPage, "https://www.olx.pl/oferty/q-rower/")
		ads := e.ListingAds(doc, allFields(), true, true)

		if len(ads) != 3 {
			t.Fatalf("len(ads) = %d, want 3 (card without link dropped)", len(ads))
		}
		if ads[0].Title != "Promowany rower" {
			t.Errorf("ads[0].Title = %q, want document order", ads[0].Title)
		}
		if want := "https://www.olx.pl/d/oferta/promowany-rower-ID1.html"; ads[0].Link != want {
			t.Errorf("ads[0].Link = %q, want %q", ads[0].Link, want)
		}
		if ads[1].Price == nil || !ads[1].Price.Negotiable || ads[1].Price.Amount != 1200 {
			t.Errorf("ads[1].Price = %v, want negotiable 1200", ads[1].Price)
		}
		if ads[1].Location != "Kraków" {
			t.Errorf("ads[1].Location = %q", ads[1].Location)
		}
		if ads[2].Title != "Rama" || ads[2].Price != nil || ads[2].Location != "" {
			t.Errorf("ads[2] partial extraction wrong: %+v", ads[2])
		}
	})

	t.Run("promoted cards excluded", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, listingPage, "https://www.olx.pl/oferty/q-rower/")
		ads := e.ListingAds(doc, allFields(), true, false)
		for _, ad := range ads {
			if ad.Title == "Promowany rower" {
				t.Error("promoted card extracted despite exclusion")
			}
		}
		if len(ads) != 2 {
			t.Errorf("len(ads) = %d, want 2", len(ads))
		}
	})

	t.Run("both classes excluded yields nothing", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, listingPage, "https://www.olx.pl/oferty/q-rower/")
		if ads := e.ListingAds(doc, allFields(), false, false); len(ads) != 0 {
			t.Errorf("len(ads) = %d, want 0", len(ads))
		}
	})

	t.Run("unselected fields stay absent", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, listingPage, "https://www.olx.pl/oferty/q-rower/")
		ads := e.ListingAds(doc, model.NewSelection(model.FieldLink), true, true)
		if len(ads) != 3 {
			t.Fatalf("len(ads) = %d, want 3", len(ads))
		}
		if ads[0].Title != "" || ads[0].Price != nil {
			t.Errorf("unselected fields populated: %+v", ads[0])
		}
	})
}

func TestExtractorNextPageURL(t *testing.T) {
	t.Parallel()

	e := New(config.DefaultSelectors(), nil)

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, listingPage, "https://www.olx.pl/oferty/q-rower/")
		next, ok := e.NextPageURL(doc)
		if !ok {
			t.Fatal("NextPageURL() ok = false, want true")
		}
		if want := "https://www.olx.pl/oferty/q-rower/?page=2"; next != want {
			t.Errorf("NextPageURL() = %q, want %q", next, want)
		}
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, "<html><body><p>koniec</p></body></html>", "https://www.olx.pl/oferty/")
		if _, ok := e.NextPageURL(doc); ok {
			t.Error("NextPageURL() ok = true, want false")
		}
	})
}

func TestExtractorDetailAd(t *testing.T) {
	t.Parallel()

	e := New(config.DefaultSelectors(), nil)

	t.Run("full extraction", func(t *testing.T) {
		t.Parallel()
		pageURL := "https://www.olx.pl/d/oferta/rower-gorski-ID2.html"
		doc := parse(t, detailPage, pageURL)
		ad, err := e.DetailAd(doc, pageURL, allFields())
		if err != nil {
			t.Fatalf("DetailAd() error: %v", err)
		}
		if ad.Link != pageURL {
			t.Errorf("Link = %q", ad.Link)
		}
		if ad.Title != "Rower górski Kross" {
			t.Errorf("Title = %q", ad.Title)
		}
		if ad.Description != "Sprawny rower, mało używany." {
			t.Errorf("Description = %q", ad.Description)
		}
		if ad.Price == nil || ad.Price.Amount != 1200 || ad.Price.Currency != "zł" {
			t.Errorf("Price = %v", ad.Price)
		}
		if ad.Author != "Marek" {
			t.Errorf("Author = %q", ad.Author)
		}
		if want := "https://www.olx.pl/oferty/uzytkownik/abc12/"; ad.Profile != want {
			t.Errorf("Profile = %q, want %q", ad.Profile, want)
		}
		if ad.Location != "Kraków, Podgórze" {
			t.Errorf("Location = %q", ad.Location)
		}
		if ad.Kind != model.KindSale {
			t.Errorf("Kind = %q, want sale", ad.Kind)
		}
	})

	t.Run("missing fields degrade to absent", func(t *testing.T) {
		t.Parallel()
		page := `<html><body>
<h1 data-cy="ad_title">Tylko tytuł</h1>
<div data-cy="ad_description"><div>Opis.</div></div>
</body></html>`
		pageURL := "https://www.olx.pl/d/oferta/x-ID9.html"
		ad, err := e.DetailAd(parse(t, page, pageURL), pageURL, allFields())
		if err != nil {
			t.Fatalf("DetailAd() error: %v", err)
		}
		if ad.Title != "Tylko tytuł" || ad.Description != "Opis." {
			t.Errorf("extracted fields wrong: %+v", ad)
		}
		if ad.Price != nil || ad.Author != "" || ad.Location != "" || ad.Profile != "" {
			t.Errorf("absent fields populated: %+v", ad)
		}
	})

	t.Run("not an ad page", func(t *testing.T) {
		t.Parallel()
		page := `<html><body><h1>Ogłoszenie nie istnieje</h1></body></html>`
		pageURL := "https://www.olx.pl/d/oferta/usuniete-ID0.html"
		_, err := e.DetailAd(parse(t, page, pageURL), pageURL, allFields())
		if !errors.Is(err, ErrNotAdPage) {
			t.Errorf("DetailAd() error = %v, want ErrNotAdPage", err)
		}
	})
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	doc := parse(t, "<html></html>", "https://www.olx.pl/oferty/q-rower/")

	tests := []struct {
		name string
		href string
		want string
	}{
		{name: "relative path", href: "/d/oferta/a-ID1.html", want: "https://www.olx.pl/d/oferta/a-ID1.html"},
		{name: "query only", href: "?page=2", want: "https://www.olx.pl/oferty/q-rower/?page=2"},
		{name: "absolute", href: "https://other.example/x", want: "https://other.example/x"},
		{name: "fragment stripped", href: "/d/oferta/a-ID1.html#opis", want: "https://www.olx.pl/d/oferta/a-ID1.html"},
		{name: "javascript dropped", href: "javascript:void(0)", want: ""},
		{name: "mailto dropped", href: "mailto:a@b.pl", want: ""},
		{name: "bare fragment dropped", href: "#top", want: ""},
		{name: "empty dropped", href: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveURL(doc, tt.href); got != tt.want {
				t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}
