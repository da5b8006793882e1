package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuanna8687/price-tracker/extract"
	"github.com/tuanna8687/price-tracker/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// SessionStatter reports browser session state. *browser.Session
// implements it.
type SessionStatter interface {
	Stats() models.SessionStats
}

// Health returns a handler for GET /api/v1/health.
//
// Status is "degraded" when the browser is not ready or more than 80% of
// MaxPages are open.
func Health(sessions SessionStatter, registry *extract.Registry, startTime time.Time) gin.HandlerFunc {
	domains := registry.Domains()

	return func(c *gin.Context) {
		stats := sessions.Stats()

		status := "healthy"
		switch {
		case stats.State != "ready":
			status = "degraded"
		case stats.MaxPages > 0 && stats.OpenPages > int(float64(stats.MaxPages)*0.8):
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			SessionStats: stats,
			Domains:      domains,
			Version:      Version,
		})
	}
}
