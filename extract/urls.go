package extract

import (
	"net/url"
	"strings"
)

// ResolveURL makes an image or link reference absolute relative to the page
// it was found on. Absolute URLs pass through; protocol-relative ones get
// https; root-relative ones are joined to the page origin; anything else is
// appended to base.
func ResolveURL(ref, base string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ref
		}
		return u.Scheme + "://" + u.Host + ref
	default:
		return strings.TrimSuffix(base, "/") + "/" + ref
	}
}
