// Package browser implements the page-control contract with a headless
// Chromium driven by go-rod.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lukman83/offerscrap/internal/platform"
	"github.com/lukman83/offerscrap/internal/stealth"
	log "github.com/sirupsen/logrus"
)

// Options configures the shared browser.
type Options struct {
	// Bin is the Chromium binary; empty lets rod find or download one.
	Bin string
	// ControlURL attaches to an already running browser instead of launching.
	ControlURL string
	Headless   bool

	NavigationTimeout time.Duration
	ActionTimeout     time.Duration

	Fingerprints *stealth.FingerprintPool
	Proxy        stealth.ProxyProvider
}

// Manager lazily launches one browser and hands out a fresh tab per call.
// It is safe for concurrent use.
type Manager struct {
	opts Options

	mu        sync.Mutex
	launcher  *launcher.Launcher
	browser   *rod.Browser
	authArmed bool
	stopAuth  context.CancelFunc
}

// authHandler answers a proxy auth challenge; *rod.Browser implements it.
type authHandler interface {
	HandleAuth(username, password string) func() error
}

var _ platform.PageProvider = (*Manager)(nil)

func NewManager(opts Options) *Manager {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 45 * time.Second
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = 15 * time.Second
	}
	return &Manager{opts: opts}
}

// NewPage opens a blank tab carrying the next fingerprint.
func (m *Manager) NewPage(ctx context.Context) (platform.Page, error) {
	b, err := m.connect()
	if err != nil {
		return nil, err
	}

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	// detach the tab from the creation context; callers pass ctx per call
	page = page.Context(context.Background())

	if m.opts.Fingerprints != nil {
		fp := m.opts.Fingerprints.Next()
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      fp.UserAgent,
			AcceptLanguage: stealth.AcceptLanguage,
			Platform:       fp.Platform,
		})
		if err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	return &Page{
		page:          page,
		navTimeout:    m.opts.NavigationTimeout,
		actionTimeout: m.opts.ActionTimeout,
	}, nil
}

func (m *Manager) connect() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		return m.browser, nil
	}

	controlURL := m.opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(m.opts.Headless).Logger(io.Discard)
		if m.opts.Bin != "" {
			l = l.Bin(m.opts.Bin)
		}
		if flag := proxyFlag(m.opts.Proxy); flag != "" {
			l = l.Proxy(flag)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		m.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if m.launcher != nil {
			m.launcher.Kill()
			m.launcher = nil
		}
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	log.WithFields(log.Fields{"component": "browser", "headless": m.opts.Headless}).Info("browser started")
	m.browser = b

	authCtx, cancel := context.WithCancel(context.Background())
	m.stopAuth = cancel
	m.armProxyAuth(b.Context(authCtx))
	return b, nil
}

// armProxyAuth answers the proxy's credential challenge once per browser;
// Chromium reuses the credentials for later tabs. Callers hold m.mu.
func (m *Manager) armProxyAuth(h authHandler) {
	user := proxyUser(m.opts.Proxy)
	if user == nil || m.authArmed {
		return
	}
	m.authArmed = true
	pass, _ := user.Password()
	wait := h.HandleAuth(user.Username(), pass)
	go func() {
		if err := wait(); err != nil {
			log.WithField("component", "browser").WithError(err).Debug("proxy auth handler ended")
		}
	}()
}

// Close shuts the browser down. A later NewPage launches a new one.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopAuth != nil {
		m.stopAuth()
		m.stopAuth = nil
	}
	m.authArmed = false

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Cleanup()
		m.launcher = nil
	}
	return err
}

// proxyFlag renders a proxy for Chromium's --proxy-server switch, which
// takes no credentials.
func proxyFlag(p stealth.ProxyProvider) string {
	if p == nil {
		return ""
	}
	u := p.URL()
	if u == nil || u.Host == "" {
		return ""
	}
	if u.Scheme == "socks5" {
		return "socks5://" + u.Host
	}
	return u.Host
}

func proxyUser(p stealth.ProxyProvider) *url.Userinfo {
	if p == nil {
		return nil
	}
	u := p.URL()
	if u == nil || u.User == nil || u.User.Username() == "" {
		return nil
	}
	return u.User
}
