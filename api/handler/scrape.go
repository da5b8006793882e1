package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuanna8687/price-tracker/extract"
	"github.com/tuanna8687/price-tracker/models"
	"github.com/tuanna8687/price-tracker/price"
	"github.com/tuanna8687/price-tracker/scraper"
)

// ProductScraper scrapes one product page. *scraper.Service implements it.
type ProductScraper interface {
	Scrape(ctx context.Context, url string) models.ScrapeResult
}

// Scrape returns a handler for POST /api/v1/scrape.
//
//  1. Bind and validate the request
//  2. Scrape through the shared browser
//  3. Map failures to HTTP status by error code, or return the product
func Scrape(sc ProductScraper, registry *extract.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		// ── 2. Scrape ───────────────────────────────────────────────
		result := sc.Scrape(c.Request.Context(), req.URL)
		resp := models.ScrapeResponse{
			Success: result.Success,
			Site:    registry.Resolve(scraper.ExtractDomain(req.URL)).String(),
		}

		// ── 3. Respond ──────────────────────────────────────────────
		if !result.Success {
			se := models.NewScrapeError(result.Code, result.Error, nil)
			if se.Code == "" {
				se.Code = models.ErrCodeInternal
			}
			resp.Error = se.ToDetail()
			resp.Timing.TotalMs = time.Since(start).Milliseconds()
			c.JSON(mapErrorToStatus(se), resp)
			return
		}

		resp.Data = result.Data
		if result.Data.Price != nil {
			resp.FormattedPrice = price.Format(*result.Data.Price, result.Data.Currency)
		}
		resp.Timing.TotalMs = time.Since(start).Milliseconds()
		c.JSON(http.StatusOK, resp)
	}
}
