package models

import "errors"

// DefaultCurrency is used when neither the site nor the configuration
// supplies one.
const DefaultCurrency = "VND"

// UnknownTitle is substituted when no title rule matches.
const UnknownTitle = "Unknown Product"

// ScrapedProduct is the normalized result of one extraction. Numeric fields
// are nil when the page did not yield a value; text fields are empty.
type ScrapedProduct struct {
	Title         string   `json:"title"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Currency      string   `json:"currency"`
	ImageURL      string   `json:"image_url,omitempty"`
	IsAvailable   bool     `json:"is_available"`
	Description   string   `json:"description,omitempty"`
}

// HasPrice reports whether a positive price was extracted.
func (p ScrapedProduct) HasPrice() bool {
	return p.Price != nil && *p.Price > 0
}

// ScrapeResult is either {Success, Data} or {!Success, Error}. Use
// Succeeded and Failed to build one.
type ScrapeResult struct {
	Success bool            `json:"success"`
	Data    *ScrapedProduct `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`

	// Code is the ScrapeError code of a failed result, empty on success.
	Code string `json:"code,omitempty"`
}

// Succeeded wraps an extracted product.
func Succeeded(p ScrapedProduct) ScrapeResult {
	return ScrapeResult{Success: true, Data: &p}
}

// Failed converts err into a failed result. Errors that are not a
// *ScrapeError are reported with ErrCodeInternal.
func Failed(err error) ScrapeResult {
	if err == nil {
		err = NewScrapeError(ErrCodeInternal, "scrape failed without an error", nil)
	}
	code := ErrCodeInternal
	var se *ScrapeError
	if errors.As(err, &se) {
		code = se.Code
	}
	return ScrapeResult{Success: false, Error: err.Error(), Code: code}
}

// Float returns a pointer to v. Handy for building optional prices.
func Float(v float64) *float64 {
	return &v
}
