package platform

import (
	"context"
	"time"

	"github.com/lukman83/offerscrap/internal/models"
	"github.com/tidwall/gjson"
)

// Page is the page-control capability the store adapters drive. Every call
// blocks until the browser answers, ctx is done, or its own timeout fires;
// timeouts are reported as ErrTimeout.
type Page interface {
	SetViewport(ctx context.Context, width, height int) error
	Goto(ctx context.Context, url string) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error

	// WaitForPredicate polls a JS function until it returns a truthy value.
	WaitForPredicate(ctx context.Context, js string, timeout time.Duration, args ...any) error

	// Eval runs a JS function in the page and returns its JSON-encoded result.
	Eval(ctx context.Context, js string, args ...any) (gjson.Result, error)

	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	ScrollByViewport(ctx context.Context, fraction float64) error
	Delay(ctx context.Context, d time.Duration) error

	// HTML returns a snapshot of the rendered document.
	HTML(ctx context.Context) (string, error)

	Close() error
}

// PageProvider hands out fresh pages. Callers own the page and must Close it.
type PageProvider interface {
	NewPage(ctx context.Context) (Page, error)
}

// Adapter scrapes one store's listing page into normalized offers.
type Adapter interface {
	Store() models.StoreID

	// Domain is the URL fragment that identifies the store, e.g. "willys.se".
	Domain() string

	Scrape(ctx context.Context, pages PageProvider, url string, session *SessionState) ([]models.Offer, error)
}
