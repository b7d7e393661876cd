package stealth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ErrDisallowed is returned by Gate.Admit for URLs robots.txt forbids.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Gate paces page visits: robots.txt check, then a token from the rate
// limiter. Pause adds the human-like gap between consecutive visits,
// stretched to the robots.txt crawl delay when that is longer.
type Gate struct {
	Robots    *RobotsChecker
	Limiter   *rate.Limiter
	Delay     *HumanDelay
	UserAgent string
}

// Admit blocks until url may be visited.
func (g *Gate) Admit(ctx context.Context, url string) error {
	if g == nil {
		return nil
	}
	if g.Robots != nil {
		ok, err := g.Robots.IsAllowed(ctx, g.UserAgent, url)
		if err != nil {
			return fmt.Errorf("robots check: %w", err)
		}
		if !ok {
			return fmt.Errorf("%s: %w", url, ErrDisallowed)
		}
	}
	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}
	return nil
}

// Pause waits between two visits, the next one being url.
func (g *Gate) Pause(ctx context.Context, url string) error {
	if g == nil {
		return nil
	}
	d := g.delay()
	if g.Robots != nil {
		if cd := g.Robots.CrawlDelay(ctx, g.UserAgent, url); cd > d {
			d = cd
		}
	}
	return Sleep(ctx, d)
}

func (g *Gate) delay() time.Duration {
	if g.Delay == nil {
		return 0
	}
	return g.Delay.Next()
}
