package extract

import "sort"

// defaultDomains is the curated site table. Keys are hostnames with any
// leading "www." already removed.
var defaultDomains = map[string]Site{
	"didongviet.vn":     DiDongViet,
	"thegioididong.com": TheGioiDiDong,
	"cellphones.com.vn": CellphoneS,
	"fptshop.com.vn":    FPTShop,
}

// Registry maps a domain to the Site that parses it. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	sites map[string]Site
}

// NewRegistry builds a registry from table. The map is copied.
func NewRegistry(table map[string]Site) *Registry {
	sites := make(map[string]Site, len(table))
	for domain, site := range table {
		sites[domain] = site
	}
	return &Registry{sites: sites}
}

// DefaultRegistry returns the registry of supported retailers.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultDomains)
}

// Resolve returns the Site for domain. Matching is exact and case-sensitive;
// anything unknown gets Generic.
func (r *Registry) Resolve(domain string) Site {
	if site, ok := r.sites[domain]; ok {
		return site
	}
	return Generic
}

// Domains lists the registered domains in sorted order.
func (r *Registry) Domains() []string {
	out := make([]string, 0, len(r.sites))
	for d := range r.sites {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
