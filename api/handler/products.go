package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuanna8687/price-tracker/models"
	"github.com/tuanna8687/price-tracker/tracker"
)

// RefreshResponse is the response for POST /api/v1/products/:id/refresh.
type RefreshResponse struct {
	Success bool                   `json:"success"`
	Data    tracker.RefreshOutcome `json:"data"`
	Timing  models.TimingInfo      `json:"timing"`
}

// HistoryResponse is the response for GET /api/v1/products/:id/history.
type HistoryResponse struct {
	Success   bool             `json:"success"`
	ProductID string           `json:"product_id"`
	Records   []tracker.Record `json:"records"`
}

// StatsResponse is the response for GET /api/v1/products/:id/stats.
type StatsResponse struct {
	Success   bool          `json:"success"`
	ProductID string        `json:"product_id"`
	Stats     tracker.Stats `json:"stats"`
}

// Refresh returns a handler for POST /api/v1/products/:id/refresh.
// A failed scrape leaves the history as it was and maps to an error status.
func Refresh(tr *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}

		out, err := tr.Refresh(c.Request.Context(), c.Param("id"), req.URL)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, RefreshResponse{
			Success: true,
			Data:    out,
			Timing:  models.TimingInfo{TotalMs: time.Since(start).Milliseconds()},
		})
	}
}

// History returns a handler for GET /api/v1/products/:id/history.
func History(tr *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.HistoryQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}
		q.Defaults()

		id := c.Param("id")
		records, err := tr.History(c.Request.Context(), id, q.Limit)
		if err != nil {
			respondError(c, err)
			return
		}
		if records == nil {
			records = []tracker.Record{}
		}

		c.JSON(http.StatusOK, HistoryResponse{Success: true, ProductID: id, Records: records})
	}
}

// Stats returns a handler for GET /api/v1/products/:id/stats.
func Stats(tr *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		st, found, err := tr.Stats(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !found {
			respondError(c, models.NewScrapeError(models.ErrCodeNotFound, "no price history for product "+id, nil))
			return
		}

		c.JSON(http.StatusOK, StatsResponse{Success: true, ProductID: id, Stats: st})
	}
}
