package browser

import (
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/config"
	"github.com/entrhq/adpilot/pkg/logging"
)

// launchArgs harden the local browser against trivial automation
// detection by the target site.
var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
}

// Factory owns the process-wide browser handle shared by all publication
// tasks. The handle is created lazily on first acquire and recreated after
// a disconnect; pipeline logic never mutates it, it only spawns isolated
// contexts from it.
type Factory struct {
	mu          sync.Mutex
	cfg         config.BrowserConfig
	pw          *playwright.Playwright
	browser     playwright.Browser
	initialized bool
}

// NewFactory creates a factory for the given browser configuration.
func NewFactory(cfg config.BrowserConfig) *Factory {
	return &Factory{cfg: cfg}
}

// Initialize installs and starts the Playwright driver. Must be called
// before the first Acquire.
func (f *Factory) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	f.pw = pw
	f.initialized = true
	return nil
}

// Acquire returns the shared browser handle, creating it if none exists or
// the cached one has disconnected. Creation failures propagate to the
// caller; retry happens one level up, per publication attempt.
func (f *Factory) Acquire() (playwright.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return nil, fmt.Errorf("browser factory not initialized")
	}

	if f.browser != nil && f.browser.IsConnected() {
		return f.browser, nil
	}

	browser, err := f.connect()
	if err != nil {
		return nil, err
	}

	browser.OnDisconnected(func(playwright.Browser) {
		logging.Warn("browser disconnected, invalidating cached handle")
		f.invalidate()
	})

	f.browser = browser
	return browser, nil
}

// connect creates a browser handle. Production connects to the managed
// remote endpoint; development launches a local process.
func (f *Factory) connect() (playwright.Browser, error) {
	if f.cfg.RemoteEndpoint != "" {
		params := url.Values{}
		params.Set("token", f.cfg.RemoteToken)
		params.Set("stealth", "true")
		params.Set("--disable-blink-features", "AutomationControlled")

		endpoint := f.cfg.RemoteEndpoint + "?" + params.Encode()
		logging.Info("connecting to remote browser", zap.String("endpoint", f.cfg.RemoteEndpoint))

		browser, err := f.pw.Chromium.ConnectOverCDP(endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to remote browser: %w", err)
		}
		return browser, nil
	}

	logging.Info("launching local browser", zap.Bool("headless", f.cfg.Headless))

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(f.cfg.Headless),
		Args:     launchArgs,
	}
	if f.cfg.ProxyServer != "" {
		launchOpts.Proxy = &playwright.Proxy{
			Server:   f.cfg.ProxyServer,
			Username: playwright.String(f.cfg.ProxyUsername),
			Password: playwright.String(f.cfg.ProxyPassword),
		}
	}

	browser, err := f.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return browser, nil
}

func (f *Factory) invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.browser = nil
}

// Shutdown closes the cached browser and stops the Playwright driver.
func (f *Factory) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil && f.browser.IsConnected() {
		_ = f.browser.Close()
	}
	f.browser = nil

	if f.initialized && f.pw != nil {
		if err := f.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		f.initialized = false
	}

	return nil
}
