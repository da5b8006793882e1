package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tuanna8687/price-tracker/api"
	"github.com/tuanna8687/price-tracker/browser"
	"github.com/tuanna8687/price-tracker/config"
	"github.com/tuanna8687/price-tracker/extract"
	"github.com/tuanna8687/price-tracker/scraper"
	"github.com/tuanna8687/price-tracker/tracker"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("pricetracker starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"timeout", cfg.Scraper.NavigationTimeout,
	)

	// ── 3. Start the browser session ────────────────────────────────
	// A failed launch is not fatal: history endpoints keep working and
	// health reports "degraded".
	session := browser.NewSession(cfg.Browser)
	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	if err := session.Start(startCtx); err != nil {
		slog.Error("browser session unavailable, scrapes will fail", "error", err)
	}
	cancelStart()
	defer func() {
		if err := session.Stop(); err != nil {
			slog.Warn("browser session stop", "error", err)
		}
	}()

	// ── 4. Scraper and history store ────────────────────────────────
	registry := extract.DefaultRegistry()
	svc := scraper.NewService(session, registry, cfg.Scraper)

	store, closeStore, err := openStore(cfg.Database)
	if err != nil {
		slog.Error("failed to open price history store", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	tr := tracker.New(svc, store)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(api.Deps{
		Session:  session,
		Scraper:  svc,
		Registry: registry,
		Tracker:  tr,
	}, cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// Deferred: session.Stop() kills Chrome, closeStore() drains the pool.
	slog.Info("pricetracker stopped")
}

// openStore picks Postgres when a database URL is configured and the
// in-memory store otherwise.
func openStore(cfg config.DatabaseConfig) (tracker.Store, func(), error) {
	if cfg.URL == "" {
		slog.Info("DATABASE_URL not set, price history is kept in memory")
		return tracker.NewMemoryStore(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pg, err := tracker.NewPostgresStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	slog.Info("price history store ready", "backend", "postgres", "maxConns", cfg.MaxConns)
	return pg, pg.Close, nil
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
