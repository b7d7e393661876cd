package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lukman83/offerscrap/internal/models"
	"github.com/lukman83/offerscrap/internal/platform"
	log "github.com/sirupsen/logrus"
)

// Options are the page-level settings shared by every store adapter.
type Options struct {
	ViewportWidth  int
	ViewportHeight int
	// CardTimeout bounds the wait for the first offer card. Timing out is
	// treated as an empty offer page.
	CardTimeout time.Duration
	Scroll      ScrollOptions
}

func DefaultOptions() Options {
	return Options{
		ViewportWidth:  1280,
		ViewportHeight: 800,
		CardTimeout:    15 * time.Second,
		Scroll:         DefaultScrollOptions(),
	}
}

// Adapter scrapes one store. Stores differ only in their selector set and
// optional session bootstrap.
type Adapter struct {
	store     models.StoreID
	domain    string
	selectors SelectorSet
	bootstrap Bootstrapper
	opts      Options
}

var _ platform.Adapter = (*Adapter)(nil)

func NewAdapter(store models.StoreID, domain string, selectors SelectorSet, bootstrap Bootstrapper, opts Options) *Adapter {
	if opts.ViewportWidth <= 0 || opts.ViewportHeight <= 0 {
		d := DefaultOptions()
		opts.ViewportWidth, opts.ViewportHeight = d.ViewportWidth, d.ViewportHeight
	}
	if opts.CardTimeout <= 0 {
		opts.CardTimeout = DefaultOptions().CardTimeout
	}
	return &Adapter{
		store:     store,
		domain:    domain,
		selectors: selectors,
		bootstrap: bootstrap,
		opts:      opts,
	}
}

const cardsHydratedJS = `(sel) => Array.from(document.querySelectorAll(sel))
	.some((e) => (e.textContent || "").trim() !== "")`

func (a *Adapter) Store() models.StoreID { return a.store }
func (a *Adapter) Domain() string        { return a.domain }

// Scrape opens a fresh page, runs the bootstrap when the session has not
// been prepared for this store, waits for offer cards, scrolls until the
// list stops growing and extracts every card. The page is always closed.
func (a *Adapter) Scrape(ctx context.Context, pages platform.PageProvider, url string, session *platform.SessionState) ([]models.Offer, error) {
	entry := log.WithFields(log.Fields{"component": "store", "store": a.store, "url": url})

	origin, err := pageOrigin(url)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	page, err := pages.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			entry.WithError(cerr).Warn("close page")
		}
	}()

	if err := page.SetViewport(ctx, a.opts.ViewportWidth, a.opts.ViewportHeight); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.Goto(ctx, url); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	if a.bootstrap != nil && session != nil && !session.Initialized(a.store) {
		platform.ReportProgress(ctx, "%s: preparing session", a.store)
		if err := a.bootstrap.Bootstrap(ctx, page); err != nil {
			return nil, err
		}
		session.MarkInitialized(a.store)
	}

	if err := page.WaitForSelector(ctx, a.selectors.Card, a.opts.CardTimeout); err != nil {
		if errors.Is(err, platform.ErrTimeout) {
			entry.Info("no offer cards rendered")
			return []models.Offer{}, nil
		}
		return nil, fmt.Errorf("wait for offer cards: %w", err)
	}
	// card shells can attach before their content hydrates
	if err := page.WaitForPredicate(ctx, cardsHydratedJS, a.opts.CardTimeout, a.selectors.Card); err != nil {
		if !errors.Is(err, platform.ErrTimeout) {
			return nil, fmt.Errorf("wait for offer content: %w", err)
		}
		entry.Warn("offer cards still empty, extracting anyway")
	}

	n, err := ScrollUntilStable(ctx, page, a.selectors.Card, a.opts.Scroll)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// extract whatever has rendered so far
		entry.WithError(err).Warn("scroll stopped early")
	}
	entry.WithField("cards", n).Debug("scroll settled")

	src, err := page.HTML(ctx)
	if err != nil {
		return nil, &platform.ExtractionError{Store: a.store, URL: url, Err: err}
	}
	cards, err := Extract(src, a.selectors)
	if err != nil {
		return nil, &platform.ExtractionError{Store: a.store, URL: url, Err: err}
	}

	offers := NormalizeAll(a.store, cards, origin)
	entry.WithFields(log.Fields{"cards": len(cards), "offers": len(offers)}).Info("extracted offers")
	return offers, nil
}
