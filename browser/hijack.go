package browser

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to CDP resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
}

// trackerDomains are analytics, ad and chat-widget hosts commonly embedded
// in Vietnamese retail pages. Subdomains match too.
var trackerDomains = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"facebook.net":          {},
	"connect.facebook.net":  {},
	"criteo.com":            {},
	"criteo.net":            {},
	"hotjar.com":            {},
	"clarity.ms":            {},
	"tiktok.com":            {},
	"analytics.tiktok.com":  {},
	"subiz.xyz":             {},
	"subiz.com":             {},
	"sp.zalo.me":            {},
	"scorecardresearch.com": {},
	"adnxs.com":             {},
	"taboola.com":           {},
	"onesignal.com":         {},
}

// isTrackerDomain checks host and each of its parent domains.
func isTrackerDomain(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for host != "" {
		if _, ok := trackerDomains[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return false
}

// requestFilter decides which subresource requests a page may make.
type requestFilter struct {
	types    map[proto.NetworkResourceType]struct{}
	trackers bool
}

// newRequestFilter returns nil when nothing would be blocked. Unknown type
// names are ignored.
func newRequestFilter(blockedTypes []string, blockTrackers bool) *requestFilter {
	types := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := resourceTypes[name]; ok {
			types[rt] = struct{}{}
		}
	}
	if len(types) == 0 && !blockTrackers {
		return nil
	}
	return &requestFilter{types: types, trackers: blockTrackers}
}

func (f *requestFilter) blocks(rt proto.NetworkResourceType, rawURL string) bool {
	if _, ok := f.types[rt]; ok {
		return true
	}
	if f.trackers {
		if u, err := url.Parse(rawURL); err == nil && isTrackerDomain(u.Hostname()) {
			return true
		}
	}
	return false
}

// mountHijack installs f on page and starts the router. It returns nil when
// f is nil; otherwise the caller must Stop the router.
func mountHijack(page *rod.Page, f *requestFilter) *rod.HijackRouter {
	if f == nil {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if f.blocks(h.Request.Type(), h.Request.URL().String()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()

	return router
}
