package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/marketplace"
)

// Manager owns the process-wide automation engine and hands out one
// Session per marketplace. The engine (a Chrome exec allocator) is
// constructed lazily under a lock so concurrent first use cannot
// double-construct it; at most one live instance exists per process.
type Manager struct {
	browser config.BrowserConfig
	fetch   config.FetchConfig
	log     *zap.SugaredLogger

	engineMu     sync.Mutex
	engineCtx    context.Context
	engineCancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager wires a Manager; no browser process is started until the
// first Acquire + fetch.
func NewManager(cfg *config.Config, log *zap.SugaredLogger) *Manager {
	return &Manager{
		browser:  cfg.Browser,
		fetch:    cfg.Fetch,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// engine returns the live allocator context, constructing it if none
// exists or the previous one was torn down.
func (m *Manager) engine() (context.Context, error) {
	m.engineMu.Lock()
	defer m.engineMu.Unlock()

	if m.engineCtx != nil && m.engineCtx.Err() == nil {
		return m.engineCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.browser.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(m.browser.UserAgent),
		chromedp.WindowSize(1440, 900),
	)
	m.engineCtx, m.engineCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	m.log.Infow("automation engine constructed", "headless", m.browser.Headless)
	return m.engineCtx, nil
}

// Acquire returns the live session for a marketplace, constructing one
// when none exists or the previous session's engine has died.
func (m *Manager) Acquire(code string) (*Session, error) {
	locale, err := marketplace.Lookup(code)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[locale.Code]; ok && s.healthy() {
		return s, nil
	}

	engineCtx, err := m.engine()
	if err != nil {
		return nil, fmt.Errorf("acquire %s session: %w", locale.Code, err)
	}

	s := &Session{
		Locale:    locale,
		engineCtx: engineCtx,
		fetch:     m.fetch,
		// Burst 1: consecutive fetch starts on one marketplace are
		// spaced by at least MinInterval, without exception.
		limiter: rate.NewLimiter(rate.Every(m.fetch.MinInterval), 1),
		log:     m.log,
	}
	m.sessions[locale.Code] = s
	m.log.Infof("[%s] session created", locale.Code)
	return s, nil
}

// Close tears down every session and the engine. The Manager may be
// reused afterwards; the next Acquire rebuilds the engine.
func (m *Manager) Close() {
	m.mu.Lock()
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	m.engineMu.Lock()
	defer m.engineMu.Unlock()
	if m.engineCancel != nil {
		m.engineCancel()
		m.engineCancel = nil
		m.engineCtx = nil
		m.log.Infow("automation engine shut down")
	}
}
