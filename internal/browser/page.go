package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lukman83/offerscrap/internal/platform"
	"github.com/lukman83/offerscrap/internal/stealth"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const scrollJS = `(f) => window.scrollBy(0, Math.round(window.innerHeight * f))`

// Page drives one rod tab through the platform.Page contract.
type Page struct {
	page          *rod.Page
	navTimeout    time.Duration
	actionTimeout time.Duration
}

var _ platform.Page = (*Page)(nil)

func (p *Page) SetViewport(ctx context.Context, width, height int) error {
	err := p.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	return mapErr(ctx, err)
}

// Goto navigates and waits until the network is almost idle. A page that
// never goes quiet within the navigation timeout is not an error; later
// selector waits decide whether it rendered.
func (p *Page) Goto(ctx context.Context, url string) error {
	pg := p.page.Context(ctx).Timeout(p.navTimeout)
	defer pg.CancelTimeout()

	wait := pg.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := pg.Navigate(url); err != nil {
		return mapErr(ctx, fmt.Errorf("navigate to %s: %w", url, err))
	}
	wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	notSettled(pg.GetContext(), url, p.navTimeout)
	return nil
}

// notSettled reports whether navCtx ran out before the page went quiet, and
// logs it so slow stores show up.
func notSettled(navCtx context.Context, url string, limit time.Duration) bool {
	if !errors.Is(navCtx.Err(), context.DeadlineExceeded) {
		return false
	}
	log.WithFields(log.Fields{"component": "browser", "url": url, "timeout": limit}).
		Debug("network not idle before navigation timeout, continuing")
	return true
}

func (p *Page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	_, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	return mapErr(ctx, err)
}

func (p *Page) WaitForPredicate(ctx context.Context, js string, timeout time.Duration, args ...any) error {
	err := p.page.Context(ctx).Timeout(timeout).Wait(rod.Eval(js, args...))
	return mapErr(ctx, err)
}

func (p *Page) Eval(ctx context.Context, js string, args ...any) (gjson.Result, error) {
	res, err := p.page.Context(ctx).Timeout(p.actionTimeout).Eval(js, args...)
	if err != nil {
		return gjson.Result{}, mapErr(ctx, err)
	}
	return gjson.Parse(res.Value.JSON("", "")), nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Timeout(p.actionTimeout).Element(selector)
	if err != nil {
		return mapErr(ctx, err)
	}
	return mapErr(ctx, el.Click(proto.InputMouseButtonLeft, 1))
}

// Type replaces the content of the input matching selector with text.
func (p *Page) Type(ctx context.Context, selector, text string) error {
	el, err := p.page.Context(ctx).Timeout(p.actionTimeout).Element(selector)
	if err != nil {
		return mapErr(ctx, err)
	}
	if err := el.SelectAllText(); err != nil {
		return mapErr(ctx, err)
	}
	return mapErr(ctx, el.Input(text))
}

func (p *Page) ScrollByViewport(ctx context.Context, fraction float64) error {
	_, err := p.page.Context(ctx).Timeout(p.actionTimeout).Eval(scrollJS, fraction)
	return mapErr(ctx, err)
}

func (p *Page) Delay(ctx context.Context, d time.Duration) error {
	return stealth.Sleep(ctx, d)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).Timeout(p.actionTimeout).HTML()
	if err != nil {
		return "", mapErr(ctx, err)
	}
	return html, nil
}

func (p *Page) Close() error {
	return p.page.Close()
}

// mapErr reports an operation's own deadline as platform.ErrTimeout. When
// the caller's ctx is done its error is returned unchanged.
func mapErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", platform.ErrTimeout, err)
	}
	return err
}
