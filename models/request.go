package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the product page to scrape. Required.
	URL string `json:"url" binding:"required"`
}

// RefreshRequest is the payload for POST /api/v1/products/:id/refresh.
type RefreshRequest struct {
	// URL is the tracked product page. Required.
	URL string `json:"url" binding:"required"`
}

// HistoryQuery holds the query parameters of GET /api/v1/products/:id/history.
type HistoryQuery struct {
	// Limit caps the number of records returned, newest first.
	// Default: 100. Max: 1000.
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// Defaults applies default values to unset fields.
func (q *HistoryQuery) Defaults() {
	if q.Limit == 0 {
		q.Limit = 100
	}
}
