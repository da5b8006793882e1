package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveText returns the trimmed text of the first element matched by the
// earliest selector in rule that yields non-empty text, or "" when none do.
func ResolveText(doc *goquery.Document, rule Rule) string {
	return ResolveTextFunc(doc, rule, nil)
}

// ResolveTextFunc is ResolveText with an extra acceptance test: a candidate
// that accept rejects is skipped like an empty one. A nil accept takes
// every non-empty candidate.
func ResolveTextFunc(doc *goquery.Document, rule Rule, accept func(string) bool) string {
	for _, m := range rule.matchers {
		text := strings.TrimSpace(doc.FindMatcher(m).First().Text())
		if text == "" {
			continue
		}
		if accept != nil && !accept(text) {
			continue
		}
		return text
	}
	return ""
}

// ResolveAttr returns the first non-empty attribute value found on the first
// element matched by each selector in turn. attrs are tried in order per
// element, e.g. "src" before "data-src" for lazy-loaded images.
func ResolveAttr(doc *goquery.Document, rule Rule, attrs ...string) string {
	return ResolveAttrFunc(doc, rule, nil, attrs...)
}

// ResolveAttrFunc is ResolveAttr with an acceptance test applied to each
// trimmed attribute value.
func ResolveAttrFunc(doc *goquery.Document, rule Rule, accept func(string) bool, attrs ...string) string {
	for _, m := range rule.matchers {
		first := doc.FindMatcher(m).First()
		if first.Length() == 0 {
			continue
		}
		for _, name := range attrs {
			v, ok := first.Attr(name)
			if !ok {
				continue
			}
			v = strings.TrimSpace(v)
			if v == "" || (accept != nil && !accept(v)) {
				continue
			}
			return v
		}
	}
	return ""
}
