// Package browser owns the shared headless Chromium process and hands out
// short-lived pages to callers.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuanna8687/price-tracker/config"
	"github.com/tuanna8687/price-tracker/models"
)

// RenderOptions controls how a page loads a URL.
type RenderOptions struct {
	UserAgent      string
	AcceptLanguage string

	// Timeout bounds navigation, the idle wait and HTML capture together.
	// Zero leaves only the caller's context as a bound.
	Timeout time.Duration

	// IdleWait is how long the network (or DOM) must stay quiet.
	IdleWait time.Duration

	BlockedResourceTypes []string
	BlockTrackers        bool
}

// Page is a browser tab leased to a single caller. Close must be called
// exactly when the caller is done; extra calls are no-ops.
type Page interface {
	Render(ctx context.Context, url string, opts RenderOptions) (string, error)
	Close() error
}

// process is a running browser that can open tabs.
type process interface {
	open(ctx context.Context) (tab, error)
	close() error
}

// tab is one raw browser page.
type tab interface {
	render(ctx context.Context, url string, opts RenderOptions) (string, error)
	close() error
}

type launchFunc func(ctx context.Context, cfg config.BrowserConfig) (process, error)

// Session manages one long-lived browser. NewPage is safe for concurrent
// use; Start and Stop exclude page creation while they run.
type Session struct {
	cfg    config.BrowserConfig
	launch launchFunc

	mu        sync.RWMutex
	state     State
	proc      process
	startedAt time.Time

	openPages atomic.Int32
}

// NewSession returns an unstarted session backed by Chromium.
func NewSession(cfg config.BrowserConfig) *Session {
	return &Session{cfg: cfg, launch: launchChromium}
}

// Start launches the browser. It is a no-op when the session is already
// ready, and may be retried after a failure or a Stop.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Ready {
		return nil
	}
	if !s.state.canStart() {
		return models.NewScrapeError(models.ErrCodeSessionUnavailable,
			fmt.Sprintf("cannot start browser session in state %s", s.state), nil)
	}

	s.state = Starting
	proc, err := s.launch(ctx, s.cfg)
	if err != nil {
		s.state = Failed
		slog.Error("browser launch failed", "error", err)
		return models.NewScrapeError(models.ErrCodeSessionUnavailable, "failed to launch browser", err)
	}

	s.proc = proc
	s.state = Ready
	s.startedAt = time.Now()
	slog.Info("browser session ready", "headless", s.cfg.Headless, "maxPages", s.cfg.MaxPages)
	return nil
}

// NewPage opens a fresh tab. It never launches the browser: unless the
// session is ready it fails immediately with ErrCodeSessionUnavailable.
func (s *Session) NewPage(ctx context.Context) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != Ready {
		return nil, models.NewScrapeError(models.ErrCodeSessionUnavailable,
			fmt.Sprintf("browser session is %s", s.state), nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeTimeout, "request canceled before page was opened", err)
	}

	t, err := s.proc.open(ctx)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeSessionUnavailable, "failed to open page", err)
	}

	s.openPages.Add(1)
	return &leasedPage{tab: t, session: s}, nil
}

// Stop closes the browser. Calling it on a session that is not running
// does nothing.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Ready {
		return nil
	}

	s.state = ShuttingDown
	slog.Info("browser session shutting down", "openPages", s.openPages.Load())

	err := s.proc.close()
	s.proc = nil
	s.state = Stopped
	if err != nil {
		slog.Warn("browser close reported an error", "error", err)
		return fmt.Errorf("browser: close: %w", err)
	}
	slog.Info("browser session stopped", "uptime", time.Since(s.startedAt).Round(time.Second))
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OpenPages is the number of leased pages not yet closed.
func (s *Session) OpenPages() int {
	return int(s.openPages.Load())
}

// Stats returns a snapshot for the health endpoint.
func (s *Session) Stats() models.SessionStats {
	return models.SessionStats{
		State:     s.State().String(),
		MaxPages:  s.cfg.MaxPages,
		OpenPages: s.OpenPages(),
	}
}

// leasedPage ties a tab to the session's open-page counter.
type leasedPage struct {
	tab     tab
	session *Session

	once     sync.Once
	closed   atomic.Bool
	closeErr error
}

func (p *leasedPage) Render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	if p.closed.Load() {
		return "", models.NewScrapeError(models.ErrCodeInternal, "render on a closed page", nil)
	}
	return p.tab.render(ctx, url, opts)
}

func (p *leasedPage) Close() error {
	p.once.Do(func() {
		p.closed.Store(true)
		p.closeErr = p.tab.close()
		p.session.openPages.Add(-1)
	})
	return p.closeErr
}
