package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"hostcraft/internal/config"
	"hostcraft/internal/logger"

	"github.com/playwright-community/playwright-go"
)

// ErrRuntimeUnavailable means no browser runtime could be located or
// launched. Fatal to the extraction attempt, never to the request.
var ErrRuntimeUnavailable = errors.New("browser runtime unavailable")

// Options bounds a single browser session. NavigationTimeout is the hard
// wall clock for the whole navigation segment.
type Options struct {
	NavigationTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
	UserAgent         string
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Manager launches sessions against whichever chromium runtime it can
// locate, preferring a system install over the bundled driver.
type Manager struct {
	log  *logger.Logger
	opts Options

	// acquire overrides Acquire when set. Tests use it to hand
	// WithSession a session that never touches a real browser.
	acquire func(ctx context.Context) (*Session, error)
}

func NewManager(cfg config.Config) *Manager {
	opts := Options{
		NavigationTimeout: time.Duration(cfg.NavigationTimeoutMs) * time.Millisecond,
		ViewportWidth:     cfg.ViewportWidth,
		ViewportHeight:    cfg.ViewportHeight,
		UserAgent:         defaultUserAgent,
	}
	if opts.NavigationTimeout <= 0 || opts.NavigationTimeout > config.MaxNavigationTimeoutMs*time.Millisecond {
		opts.NavigationTimeout = config.MaxNavigationTimeoutMs * time.Millisecond
	}
	return &Manager{log: logger.New("BrowserManager"), opts: opts}
}

func (m *Manager) Options() Options { return m.opts }

// systemChromiumPaths lists well-known install locations per platform,
// probed in order before falling back to the bundled runtime.
func systemChromiumPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}

func locateSystemChromium() string {
	for _, p := range systemChromiumPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Acquire launches a fresh browser session. The caller owns the session
// and must release it on every exit path; use WithSession unless the
// session has to outlive the acquiring function.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}

	pw, err := playwright.Run()
	if err != nil {
		m.log.LogErrorf("playwright run failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
			"--disable-gpu",
			"--no-first-run",
			"--disable-default-apps",
			"--disable-extensions",
		},
	}
	if bin := locateSystemChromium(); bin != "" {
		m.log.LogDebugf("using system chromium at %s", bin)
		launchOpts.ExecutablePath = playwright.String(bin)
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		m.log.LogErrorf("chromium launch failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(m.opts.UserAgent),
		Viewport: &playwright.Size{
			Width:  m.opts.ViewportWidth,
			Height: m.opts.ViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("%w: new context: %v", ErrRuntimeUnavailable, err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("%w: new page: %v", ErrRuntimeUnavailable, err)
	}

	s := &Session{
		page:         &pwPage{page: page},
		log:          m.log,
		opts:         m.opts,
		closeBrowser: func() error { return browser.Close() },
		stopDriver:   pw.Stop,
	}
	return s, nil
}

// WithSession runs fn inside a scoped session and guarantees teardown on
// success, error and panic alike.
func (m *Manager) WithSession(ctx context.Context, fn func(*Session) error) error {
	acquire := m.acquire
	if acquire == nil {
		acquire = m.Acquire
	}
	s, err := acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// Session is an exclusive scoped resource: one browser process, one page,
// owned by a single request.
type Session struct {
	page Page
	log  *logger.Logger
	opts Options

	closeBrowser func() error
	stopDriver   func() error
	closeOnce    sync.Once
}

func (s *Session) Page() Page { return s.page }

func (s *Session) NavigationTimeout() time.Duration { return s.opts.NavigationTimeout }

// Close tears down the browser and driver exactly once. Safe to call from
// multiple defer paths.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.closeBrowser != nil {
			if err := s.closeBrowser(); err != nil {
				s.log.LogWarnf("browser close: %v", err)
			}
		}
		if s.stopDriver != nil {
			if err := s.stopDriver(); err != nil {
				s.log.LogWarnf("playwright stop: %v", err)
			}
		}
	})
}
