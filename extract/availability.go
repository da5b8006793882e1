package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// unavailablePhrases mark a product as not purchasable wherever they appear
// in the page text. Lower case, NFC.
var unavailablePhrases = []string{
	"hết hàng",
	"out of stock",
	"ngừng kinh doanh",
	"temporarily unavailable",
}

// skipText lists elements whose text content is never rendered.
var skipText = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// isAvailable reports false when the page text contains any unavailable
// phrase, including the site-specific extras.
func isAvailable(doc *goquery.Document, extra []string) bool {
	text := pageText(doc)
	for _, phrase := range unavailablePhrases {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	for _, phrase := range extra {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	return true
}

// pageText is the lower-cased, NFC-normalized text of every rendered node.
// Vietnamese pages mix precomposed and combining diacritics, so both sides
// of the comparison are normalized.
func pageText(doc *goquery.Document) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipText[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.ToLower(norm.NFC.String(b.String()))
}
