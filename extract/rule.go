// Package extract turns rendered product pages into models.ScrapedProduct
// values. Each supported retailer is a Site whose profile lists ordered
// CSS selectors per field; one Parse function serves every Site.
package extract

import (
	"log/slog"

	"github.com/andybalholm/cascadia"
)

// Rule is an ordered list of compiled selectors for one field. Earlier
// selectors are more specific and win when they match.
type Rule struct {
	selectors []string
	matchers  []cascadia.Selector
}

// NewRule compiles selectors in order. A selector that fails to compile is
// logged and dropped so that one bad entry never disables the field.
func NewRule(selectors ...string) Rule {
	r := Rule{
		selectors: make([]string, 0, len(selectors)),
		matchers:  make([]cascadia.Selector, 0, len(selectors)),
	}
	for _, s := range selectors {
		m, err := cascadia.Compile(s)
		if err != nil {
			slog.Warn("extract: dropping invalid selector", "selector", s, "error", err)
			continue
		}
		r.selectors = append(r.selectors, s)
		r.matchers = append(r.matchers, m)
	}
	return r
}

