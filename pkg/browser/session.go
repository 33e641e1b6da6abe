package browser

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/config"
	"github.com/entrhq/adpilot/pkg/logging"
)

// webdriverOverride hides the automation flag the target site could use to
// reject the session outright.
const webdriverOverride = `Object.defineProperty(navigator, "webdriver", { get: () => undefined });`

// Session is an isolated browser execution context with a single page.
// Exactly one publication attempt owns a session; it is never reused and
// must be closed when the attempt ends, success or failure.
type Session struct {
	id        string
	context   playwright.BrowserContext
	page      playwright.Page
	createdAt time.Time
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Page returns the session's single page.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Close tears down the page and context. Close errors are ignored so
// teardown never masks the error that ended the attempt.
func (s *Session) Close() {
	_ = s.page.Close()
	_ = s.context.Close()
	logging.Debug("session released", zap.String("session_id", s.id))
}

// Manager opens isolated sessions from the shared browser handle. Each
// session gets fresh cookies and storage, the configured network egress
// identity, a fixed viewport and simulated geolocation.
type Manager struct {
	factory  *Factory
	cfg      config.BrowserConfig
	denylist *denylist
}

// NewManager creates a session manager backed by the given factory.
func NewManager(factory *Factory, cfg config.BrowserConfig) (*Manager, error) {
	dl, err := newDenylist(blockedDomainPatterns)
	if err != nil {
		return nil, err
	}
	return &Manager{factory: factory, cfg: cfg, denylist: dl}, nil
}

// OpenSession acquires the shared browser and creates a fresh isolated
// context with one configured page.
func (m *Manager) OpenSession() (*Session, error) {
	browser, err := m.factory.Acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		UserAgent:   playwright.String(m.cfg.UserAgent),
		Permissions: []string{"geolocation"},
		Geolocation: &playwright.Geolocation{
			Latitude:  m.cfg.GeoLatitude,
			Longitude: m.cfg.GeoLongitude,
		},
		Viewport: &playwright.Size{
			Width:  m.cfg.ViewportWidth,
			Height: m.cfg.ViewportHeight,
		},
	}
	if m.cfg.ProxyServer != "" {
		contextOpts.Proxy = &playwright.Proxy{
			Server:   m.cfg.ProxyServer,
			Username: playwright.String(m.cfg.ProxyUsername),
			Password: playwright.String(m.cfg.ProxyPassword),
		}
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := m.configurePage(page); err != nil {
		_ = page.Close()
		_ = context.Close()
		return nil, err
	}

	session := &Session{
		id:        uuid.New().String(),
		context:   context,
		page:      page,
		createdAt: time.Now(),
	}

	logging.Debug("session opened", zap.String("session_id", session.id))
	return session, nil
}

// configurePage installs request interception, the automation-identity
// override and network diagnostics on a fresh page.
func (m *Manager) configurePage(page playwright.Page) error {
	err := page.Route("**/*", func(route playwright.Route) {
		req := route.Request()
		if m.denylist.Blocks(req.ResourceType(), req.URL()) {
			_ = route.Abort()
			return
		}
		_ = route.Continue()
	})
	if err != nil {
		return fmt.Errorf("failed to install request interception: %w", err)
	}

	if err := page.AddInitScript(playwright.Script{
		Content: playwright.String(webdriverOverride),
	}); err != nil {
		return fmt.Errorf("failed to add init script: %w", err)
	}

	page.OnRequest(func(request playwright.Request) {
		logging.Debug("request",
			zap.String("method", request.Method()),
			zap.String("url", request.URL()),
		)
	})
	page.OnResponse(func(response playwright.Response) {
		if response.Status() >= 400 {
			logging.Debug("network error response",
				zap.Int("status", response.Status()),
				zap.String("url", response.URL()),
			)
		}
	})

	return nil
}
