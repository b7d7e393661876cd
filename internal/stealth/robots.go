package stealth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/lukman83/offerscrap/internal/httputil"
	log "github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// RobotsChecker caches and checks robots.txt rules per origin.
type RobotsChecker struct {
	client  *http.Client
	ttl     time.Duration
	failTTL time.Duration
	enabled bool

	mu    sync.Mutex
	cache map[string]robotsEntry
}

// robotsEntry is a fetched robots.txt, or the error fetching it. A failed
// fetch allows everything until it expires.
type robotsEntry struct {
	data    *robotstxt.RobotsData
	err     error
	fetched time.Time
}

// NewRobotsChecker creates a robots.txt checker. A disabled checker allows
// everything without fetching.
func NewRobotsChecker(client *http.Client, enabled bool) *RobotsChecker {
	return &RobotsChecker{
		client:  client,
		ttl:     time.Hour,
		failTTL: 5 * time.Minute,
		enabled: enabled,
		cache:   make(map[string]robotsEntry),
	}
}

// IsAllowed checks if the given URL is allowed by robots.txt. An
// unreachable robots.txt allows the request.
func (r *RobotsChecker) IsAllowed(ctx context.Context, userAgent, rawURL string) (bool, error) {
	if !r.enabled {
		return true, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false, err
	}

	data, err := r.getRobots(ctx, originOf(u))
	if err != nil {
		log.WithFields(log.Fields{"component": "robots", "url": rawURL}).WithError(err).Debug("robots.txt unavailable")
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.FindGroup(userAgent).Test(path), nil
}

// CrawlDelay returns the crawl delay robots.txt asks of userAgent on the
// origin of rawURL.
func (r *RobotsChecker) CrawlDelay(ctx context.Context, userAgent, rawURL string) time.Duration {
	if !r.enabled {
		return 0
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	data, err := r.getRobots(ctx, originOf(u))
	if err != nil {
		return 0
	}
	return data.FindGroup(userAgent).CrawlDelay
}

func originOf(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// getRobots returns the cached rules for origin, fetching them when absent
// or expired. Fetches are serialized so a batch hitting one origin fetches
// once, and an unreachable origin is not retried until failTTL passes.
func (r *RobotsChecker) getRobots(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cache[origin]; ok {
		ttl := r.ttl
		if e.err != nil {
			ttl = r.failTTL
		}
		if time.Since(e.fetched) < ttl {
			return e.data, e.err
		}
	}

	data, err := r.fetch(ctx, origin)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	r.cache[origin] = robotsEntry{data: data, err: err, fetched: time.Now()}
	return data, err
}

func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("build robots.txt request: %w", err)
	}
	req.Header = httputil.RobotsHeaders()

	resp, err := httputil.DoWithRetry(r.client, req, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read robots.txt %s: %w", origin, err)
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt %s: %w", origin, err)
	}
	return data, nil
}
