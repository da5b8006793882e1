package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/tuanna8687/price-tracker/models"
	"github.com/tuanna8687/price-tracker/price"
)

// Site identifies an extraction profile. The set is closed: every value
// has an entry in profiles.
type Site int

const (
	Generic Site = iota
	DiDongViet
	TheGioiDiDong
	CellphoneS
	FPTShop

	numSites
)

var siteNames = [numSites]string{
	Generic:       "generic",
	DiDongViet:    "didongviet",
	TheGioiDiDong: "thegioididong",
	CellphoneS:    "cellphones",
	FPTShop:       "fptshop",
}

func (s Site) String() string {
	if s < 0 || s >= numSites {
		return "generic"
	}
	return siteNames[s]
}

// Sites lists every profile, Generic first.
func Sites() []Site {
	out := make([]Site, 0, numSites)
	for s := Generic; s < numSites; s++ {
		out = append(out, s)
	}
	return out
}

const (
	minDescriptionLen = 20
	maxDescriptionLen = 500
)

// profile is the data that distinguishes one site from another. The control
// flow in Parse is shared.
type profile struct {
	title         Rule
	price         Rule
	originalPrice Rule
	image         Rule
	description   Rule

	// titleMinLen rejects title candidates of this many runes or fewer.
	titleMinLen int

	// unavailable extends unavailablePhrases for this site.
	unavailable []string

	// priceCandidatesOnly locates price-like elements without reading a
	// price from them. Unknown layouts report "no price" rather than a guess.
	priceCandidatesOnly bool
}

// Parse extracts a product from rendered HTML using site's profile. Missing
// fields are left at their zero value (title falls back to
// models.UnknownTitle); only unreadable input returns an error.
func Parse(site Site, rawHTML, pageURL string) (models.ScrapedProduct, error) {
	if site < 0 || site >= numSites {
		site = Generic
	}
	p := &profiles[site]

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.ScrapedProduct{}, models.NewScrapeError(
			models.ErrCodeExtraction,
			"failed to parse page HTML",
			err,
		)
	}

	product := models.ScrapedProduct{
		Title:       p.extractTitle(doc),
		Currency:    models.DefaultCurrency,
		ImageURL:    p.extractImage(doc, pageURL),
		IsAvailable: isAvailable(doc, p.unavailable),
		Description: p.extractDescription(doc),
	}

	if p.priceCandidatesOnly {
		n := countMatches(doc, p.price)
		slog.Debug("extract: price candidates located, none used",
			"site", site.String(), "url", pageURL, "candidates", n)
	} else {
		product.Price = resolvePrice(doc, p.price)
		product.OriginalPrice = resolvePrice(doc, p.originalPrice)
	}

	return product, nil
}

func (p *profile) extractTitle(doc *goquery.Document) string {
	var accept func(string) bool
	if p.titleMinLen > 0 {
		accept = func(s string) bool { return utf8.RuneCountInString(s) > p.titleMinLen }
	}
	if title := ResolveTextFunc(doc, p.title, accept); title != "" {
		return collapseSpace(title)
	}
	return models.UnknownTitle
}

func (p *profile) extractImage(doc *goquery.Document, pageURL string) string {
	src := ResolveAttrFunc(doc, p.image, notDataURI, "src", "data-src")
	return ResolveURL(src, pageURL)
}

func (p *profile) extractDescription(doc *goquery.Document) string {
	desc := ResolveTextFunc(doc, p.description, func(s string) bool {
		return utf8.RuneCountInString(s) > minDescriptionLen
	})
	return truncate(desc, maxDescriptionLen)
}

// resolvePrice returns the first candidate that normalizes to a positive
// price, or nil.
func resolvePrice(doc *goquery.Document, rule Rule) *float64 {
	var found *float64
	ResolveTextFunc(doc, rule, func(s string) bool {
		v, ok := price.Normalize(s)
		if !ok || v <= 0 {
			return false
		}
		found = &v
		return true
	})
	return found
}

func countMatches(doc *goquery.Document, rule Rule) int {
	n := 0
	for _, m := range rule.matchers {
		n += doc.FindMatcher(m).Length()
	}
	return n
}

// notDataURI rejects inline placeholders that lazy loaders put in src.
func notDataURI(v string) bool {
	return !strings.HasPrefix(v, "data:")
}

// truncate cuts s to max runes and marks the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
