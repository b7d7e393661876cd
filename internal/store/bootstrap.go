package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lukman83/offerscrap/internal/models"
	"github.com/lukman83/offerscrap/internal/platform"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

// Bootstrapper prepares a browser session once before a store's first scrape.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, page platform.Page) error
}

// maxCandidates caps how many labels a setup error lists.
const maxCandidates = 10

var errNoMatch = errors.New("no matching entry")

const (
	clickSelectorJS = `(sel) => {
		const el = document.querySelector(sel);
		if (!el) return false;
		el.click();
		return true;
	}`

	clickByTextJS = `(sel, text) => {
		const wanted = text.toLowerCase();
		const el = Array.from(document.querySelectorAll(sel)).find((e) =>
			(e.textContent || "").replace(/\s+/g, " ").trim().toLowerCase().includes(wanted));
		if (!el) return false;
		el.click();
		return true;
	}`

	listLabelsJS = `(sel) => Array.from(document.querySelectorAll(sel))
		.map((e) => (e.textContent || "").replace(/\s+/g, " ").trim())`

	clickNthJS = `(sel, i) => {
		const el = document.querySelectorAll(sel)[i];
		if (!el) return false;
		el.click();
		return true;
	}`
)

// StoreSelection dismisses the consent banner and picks a physical store in
// the site's store picker, so that offers shown are for that location.
type StoreSelection struct {
	Store models.StoreID

	ConsentButton string
	ConsentText   string
	ConsentPause  time.Duration

	OpenText    string
	SearchInput string
	ResultItem  string
	Location    string

	WaitTimeout time.Duration
	AfterSelect time.Duration
}

func (s StoreSelection) Bootstrap(ctx context.Context, page platform.Page) error {
	entry := log.WithFields(log.Fields{"component": "bootstrap", "store": s.Store})

	if !s.acceptConsent(ctx, page) {
		entry.Debug("no consent banner dismissed")
	}

	opened, err := clickFirst(ctx, page, clickByTextJS, "button", s.OpenText)
	if err != nil {
		return s.fail("open store picker", nil, err)
	}
	if !opened {
		labels, _ := listLabels(ctx, page, "button")
		return s.fail("open store picker", labels, fmt.Errorf("no button containing %q", s.OpenText))
	}

	if err := page.WaitForSelector(ctx, s.SearchInput, s.WaitTimeout); err != nil {
		return s.fail("store search input", nil, err)
	}
	if err := page.Type(ctx, s.SearchInput, s.Location); err != nil {
		return s.fail("type store name", nil, err)
	}

	if err := page.WaitForSelector(ctx, s.ResultItem, s.WaitTimeout); err != nil {
		return s.fail("store search results", nil, err)
	}
	labels, err := listLabels(ctx, page, s.ResultItem)
	if err != nil {
		return s.fail("read store results", nil, err)
	}
	idx := matchLabel(labels, s.Location)
	if idx < 0 {
		return s.fail("select store", labels, fmt.Errorf("%w for %q", errNoMatch, s.Location))
	}
	clicked, err := clickFirst(ctx, page, clickNthJS, s.ResultItem, idx)
	if err != nil || !clicked {
		if err == nil {
			err = fmt.Errorf("entry %d vanished", idx)
		}
		return s.fail("select store", labels, err)
	}

	entry.WithField("location", labels[idx]).Info("store selected")
	return page.Delay(ctx, s.AfterSelect)
}

// acceptConsent is best effort: a missing banner is not an error.
func (s StoreSelection) acceptConsent(ctx context.Context, page platform.Page) bool {
	if s.ConsentButton != "" {
		if ok, err := clickFirst(ctx, page, clickSelectorJS, s.ConsentButton); err == nil && ok {
			_ = page.Delay(ctx, s.ConsentPause)
			return true
		}
	}
	if s.ConsentText != "" {
		if ok, err := clickFirst(ctx, page, clickByTextJS, "button", s.ConsentText); err == nil && ok {
			_ = page.Delay(ctx, s.ConsentPause)
			return true
		}
	}
	return false
}

func (s StoreSelection) fail(step string, labels []string, err error) error {
	labels = nonEmpty(labels)
	if len(labels) > maxCandidates {
		labels = labels[:maxCandidates]
	}
	return &platform.SessionSetupError{Store: s.Store, Step: step, Candidates: labels, Err: err}
}

func clickFirst(ctx context.Context, page platform.Page, js string, args ...any) (bool, error) {
	res, err := page.Eval(ctx, js, args...)
	if err != nil {
		return false, err
	}
	return res.Bool(), nil
}

// listLabels returns one label per element matching sel, in DOM order. Empty
// labels are kept so an index into the result is an index into the DOM list.
func listLabels(ctx context.Context, page platform.Page, sel string) ([]string, error) {
	res, err := page.Eval(ctx, listLabelsJS, sel)
	if err != nil {
		return nil, err
	}
	arr := res.Array()
	labels := make([]string, len(arr))
	for i, v := range arr {
		labels[i] = strings.TrimSpace(v.String())
	}
	return labels, nil
}

func nonEmpty(labels []string) []string {
	var out []string
	for _, l := range labels {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// matchLabel returns the index of the first label containing target,
// compared case-insensitively, or -1.
func matchLabel(labels []string, target string) int {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(target))
	if want == "" {
		return -1
	}
	for i, l := range labels {
		if strings.Contains(fold.String(l), want) {
			return i
		}
	}
	return -1
}
