// Package scraper turns a product URL into a ScrapeResult: it picks the
// site profile, renders the page in the shared browser and parses it.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tuanna8687/price-tracker/browser"
	"github.com/tuanna8687/price-tracker/config"
	"github.com/tuanna8687/price-tracker/extract"
	"github.com/tuanna8687/price-tracker/models"
)

// UnknownDomain is returned by ExtractDomain for input without a host.
const UnknownDomain = "unknown"

// PageProvider leases browser pages. *browser.Session implements it.
type PageProvider interface {
	NewPage(ctx context.Context) (browser.Page, error)
}

// Service is safe for concurrent use. Every Scrape leases its own page.
type Service struct {
	pages    PageProvider
	registry *extract.Registry
	cfg      config.ScraperConfig
}

// NewService wires a page provider and a site registry. A nil registry
// means extract.DefaultRegistry.
func NewService(pages PageProvider, registry *extract.Registry, cfg config.ScraperConfig) *Service {
	if registry == nil {
		registry = extract.DefaultRegistry()
	}
	return &Service{pages: pages, registry: registry, cfg: cfg}
}

// Registry returns the registry used to resolve domains.
func (s *Service) Registry() *extract.Registry {
	return s.registry
}

// Scrape loads rawURL and extracts a product from it. It never panics and
// never returns an error; failures are reported in the result.
//
// Lifecycle:
//
//  1. Resolve domain and site profile (bad URLs fall back to generic)
//  2. Lease a page
//  3. DEFER: close the page on every path, panics included
//  4. Render with the configured user agent and timeout
//  5. Parse with the site profile
func (s *Service) Scrape(ctx context.Context, rawURL string) (result models.ScrapeResult) {
	// ── 1. Resolve site ───────────────────────────────────────────────
	domain := ExtractDomain(rawURL)
	site := s.registry.Resolve(domain)
	log := slog.With("url", rawURL, "domain", domain, "site", site.String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("scrape panicked", "panic", r)
			result = models.Failed(models.NewScrapeError(
				models.ErrCodeInternal,
				fmt.Sprintf("scrape panicked: %v", r),
				nil,
			))
		}
	}()

	// ── 2. Lease page ─────────────────────────────────────────────────
	page, err := s.pages.NewPage(ctx)
	if err != nil {
		log.Error("failed to lease browser page", "error", err)
		return models.Failed(err)
	}

	// ── 3. Release guard ──────────────────────────────────────────────
	defer func() {
		if cerr := page.Close(); cerr != nil {
			log.Warn("failed to close browser page", "error", cerr)
		}
	}()

	// ── 4. Render ─────────────────────────────────────────────────────
	html, err := page.Render(ctx, rawURL, s.renderOptions())
	if err != nil {
		serr := categorizeError(err, "failed to load product page")
		log.Error("scrape failed", "code", serr.Code, "error", err)
		return models.Failed(serr)
	}

	// ── 5. Parse ──────────────────────────────────────────────────────
	product, err := extract.Parse(site, html, rawURL)
	if err != nil {
		log.Error("extraction failed", "error", err)
		return models.Failed(err)
	}
	if s.cfg.DefaultCurrency != "" {
		product.Currency = s.cfg.DefaultCurrency
	}

	log.Debug("scrape complete",
		"title", product.Title,
		"hasPrice", product.HasPrice(),
		"available", product.IsAvailable,
	)
	return models.Succeeded(product)
}

func (s *Service) renderOptions() browser.RenderOptions {
	return browser.RenderOptions{
		UserAgent:            s.cfg.UserAgent,
		AcceptLanguage:       s.cfg.AcceptLanguage,
		Timeout:              s.cfg.NavigationTimeout,
		IdleWait:             s.cfg.IdleWait,
		BlockedResourceTypes: s.cfg.BlockedResourceTypes,
		BlockTrackers:        s.cfg.BlockTrackers,
	}
}

// ExtractDomain returns the lower-cased host of rawURL without a leading
// "www.", or UnknownDomain when rawURL has no parseable host.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return UnknownDomain
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return UnknownDomain
	}
	return host
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can map them to HTTP status codes. Typed errors pass through.
func categorizeError(err error, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
