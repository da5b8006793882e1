package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUserAgent is sent when SCRAPING_USER_AGENT is unset.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Database  DatabaseConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the shared headless browser.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is passed to Chromium as --proxy-server.
	Proxy string

	// MaxPages is the number of concurrently open pages above which the
	// health endpoint reports "degraded". It does not cap leases.
	MaxPages int // default: 10
}

// ScraperConfig controls how a product page is loaded.
type ScraperConfig struct {
	// UserAgent overrides the browser user agent for every page.
	UserAgent string

	// NavigationTimeout bounds navigation, idle wait and HTML capture.
	NavigationTimeout time.Duration // default: 30s

	// DefaultCurrency is stamped on products whose page gives none.
	DefaultCurrency string // default: "VND"

	// AcceptLanguage is sent as the Accept-Language header.
	AcceptLanguage string

	// IdleWait is how long the network must stay quiet before the page
	// counts as settled.
	IdleWait time.Duration // default: 500ms

	// BlockedResourceTypes lists resource types to block, e.g. "Image".
	// default: none
	BlockedResourceTypes []string

	// BlockTrackers drops requests to known analytics and ad hosts.
	BlockTrackers bool // default: false
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DatabaseConfig selects the price history store.
type DatabaseConfig struct {
	// URL is a Postgres connection string. Empty selects the in-memory store.
	URL string

	// MaxConns caps the pgx pool size.
	MaxConns int // default: 10
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PT_HOST", "0.0.0.0"),
			Port: envIntOr("PT_PORT", 8080),
			Mode: envOr("PT_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("PT_HEADLESS", true),
			NoSandbox:  envBoolOr("PT_NO_SANDBOX", true),
			BrowserBin: os.Getenv("PT_BROWSER_BIN"),
			Proxy:      os.Getenv("PT_PROXY"),
			MaxPages:   envIntOr("PT_MAX_PAGES", 10),
		},
		Scraper: ScraperConfig{
			UserAgent:            envOr("SCRAPING_USER_AGENT", DefaultUserAgent),
			NavigationTimeout:    envMillisOr("SCRAPING_TIMEOUT", 30*time.Second),
			DefaultCurrency:      envOr("SCRAPING_DEFAULT_CURRENCY", "VND"),
			AcceptLanguage:       envOr("PT_ACCEPT_LANGUAGE", "vi-VN,vi;q=0.9,en;q=0.8"),
			IdleWait:             envDurationOr("PT_IDLE_WAIT", 500*time.Millisecond),
			BlockedResourceTypes: envSliceOr("PT_BLOCKED_RESOURCES", nil),
			BlockTrackers:        envBoolOr("PT_BLOCK_TRACKERS", false),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PT_AUTH_ENABLED", false),
			APIKeys: envSliceOr("PT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PT_RATE_RPS", 5.0),
			Burst:             envIntOr("PT_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("PT_LOG_LEVEL", "info"),
			Format: envOr("PT_LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: envIntOr("PT_DB_MAX_CONNS", 10),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envMillisOr reads a plain millisecond count ("30000"); a Go duration
// string ("30s") is accepted too.
func envMillisOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
