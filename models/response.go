package models

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether a product record was extracted.
	Success bool `json:"success"`

	// Data is the extracted product, present only on success.
	Data *ScrapedProduct `json:"data,omitempty"`

	// Site names the extraction profile that parsed the page.
	Site string `json:"site,omitempty"`

	// FormattedPrice is Data.Price rendered in the product currency.
	FormattedPrice string `json:"formatted_price,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent serving a request.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string       `json:"status"` // "healthy" or "degraded"
	Uptime       string       `json:"uptime"`
	SessionStats SessionStats `json:"session_stats"`
	Domains      []string     `json:"domains"`
	Version      string       `json:"version"`
}

// SessionStats reports the state of the shared browser session.
type SessionStats struct {
	State     string `json:"state"`
	MaxPages  int    `json:"max_pages"`
	OpenPages int    `json:"open_pages"`
}

// ErrorResponse is the body of failed non-scrape requests, including those
// rejected by middleware.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// NewErrorResponse builds an ErrorResponse from a code and message.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: &ErrorDetail{Code: code, Message: message}}
}
