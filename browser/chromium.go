package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/tuanna8687/price-tracker/config"
	"github.com/ysmood/gson"
)

// launchChromium starts a local Chromium and connects to it over CDP.
func launchChromium(ctx context.Context, cfg config.BrowserConfig) (process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	// Container friendly flags.
	if cfg.NoSandbox {
		l.Set(flags.Flag("disable-setuid-sandbox"))
	}
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-accelerated-2d-canvas"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	return &chromium{browser: b, launcher: l}, nil
}

type chromium struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (c *chromium) open(ctx context.Context) (tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The tab is created without the request context so that Close still
	// works after the request deadline has passed.
	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("browser: create target: %w", err)
	}
	return &chromiumTab{page: page}, nil
}

func (c *chromium) close() error {
	err := c.browser.Close()
	c.launcher.Cleanup()
	return err
}

type chromiumTab struct {
	page *rod.Page
}

// render loads url and returns the settled DOM as HTML.
//
// The user agent, headers and hijack router are installed before Navigate
// so they apply to the document request. The idle waiter is also created
// before Navigate, otherwise in-flight requests are missed and the wait
// returns immediately.
func (t *chromiumTab) render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	p := t.page.Context(ctx)

	if opts.UserAgent != "" {
		err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      opts.UserAgent,
			AcceptLanguage: opts.AcceptLanguage,
		})
		if err != nil {
			return "", fmt.Errorf("browser: set user agent: %w", err)
		}
	}
	if opts.AcceptLanguage != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Accept-Language": opts.AcceptLanguage}),
		}.Call(p)
	}

	idle := opts.IdleWait
	if idle <= 0 {
		idle = 500 * time.Millisecond
	}

	// WaitRequestIdle and HijackRequests both use the Fetch domain, so the
	// DOM stability wait replaces it when the router is mounted.
	var waitIdle func()
	if router := mountHijack(t.page, newRequestFilter(opts.BlockedResourceTypes, opts.BlockTrackers)); router != nil {
		defer func() { _ = router.Stop() }()
	} else {
		waitIdle = p.WaitRequestIdle(idle, nil, nil, nil)
	}

	if err := p.Navigate(url); err != nil {
		return "", fmt.Errorf("browser: navigate: %w", err)
	}

	if waitIdle != nil {
		waitIdle()
	} else if err := p.WaitDOMStable(idle, 0.1); err != nil {
		slog.Debug("DOM did not settle, using current DOM", "url", url, "error", err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("browser: read html: %w", err)
	}
	return html, nil
}

func (t *chromiumTab) close() error {
	return t.page.Close()
}

// toHeadersMap converts a plain string map to proto.NetworkHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
