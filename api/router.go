package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuanna8687/price-tracker/api/handler"
	"github.com/tuanna8687/price-tracker/api/middleware"
	"github.com/tuanna8687/price-tracker/config"
	"github.com/tuanna8687/price-tracker/extract"
	"github.com/tuanna8687/price-tracker/tracker"
)

// Deps are the services the HTTP API serves.
type Deps struct {
	Session  handler.SessionStatter
	Scraper  handler.ProductScraper
	Registry *extract.Registry
	Tracker  *tracker.Tracker
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health, no auth.
	v1.GET("/health", handler.Health(deps.Session, deps.Registry, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(deps.Scraper, deps.Registry))

	products := protected.Group("/products/:id")
	products.POST("/refresh", handler.Refresh(deps.Tracker))
	products.GET("/history", handler.History(deps.Tracker))
	products.GET("/stats", handler.Stats(deps.Tracker))

	return r
}
