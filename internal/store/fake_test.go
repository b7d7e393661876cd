package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lukman83/offerscrap/internal/platform"
	"github.com/tidwall/gjson"
)

// fakePage scripts a browser page. Eval dispatches on the script constant.
type fakePage struct {
	mu sync.Mutex

	html    string
	htmlErr error
	gotoErr error
	predErr error

	// counts are returned by successive card counts; the last one repeats.
	counts []int
	// waitErr maps a selector to the error WaitForSelector returns for it.
	waitErr map[string]error
	// clickable selectors for clickSelectorJS; texts for clickByTextJS.
	clickable map[string]bool
	texts     []string
	labels    []string

	countCalls int
	scrolls    int
	delays     []time.Duration
	typed      map[string]string
	clickedNth []int
	predicates []string
	gotos      []string
	closed     int
}

func (f *fakePage) SetViewport(context.Context, int, int) error { return nil }

func (f *fakePage) Goto(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotos = append(f.gotos, url)
	return f.gotoErr
}

func (f *fakePage) WaitForSelector(_ context.Context, sel string, _ time.Duration) error {
	return f.waitErr[sel]
}

func (f *fakePage) WaitForPredicate(_ context.Context, js string, _ time.Duration, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if js == cardsHydratedJS && len(args) > 0 {
		f.predicates = append(f.predicates, args[0].(string))
	}
	return f.predErr
}

func (f *fakePage) Eval(_ context.Context, js string, args ...any) (gjson.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch js {
	case countCardsJS:
		i := f.countCalls
		f.countCalls++
		if len(f.counts) == 0 {
			return gjson.Parse("0"), nil
		}
		if i >= len(f.counts) {
			i = len(f.counts) - 1
		}
		return jsonResult(f.counts[i]), nil
	case clickSelectorJS:
		return jsonResult(f.clickable[args[0].(string)]), nil
	case clickByTextJS:
		want := args[1].(string)
		for _, t := range f.texts {
			if t == want {
				return jsonResult(true), nil
			}
		}
		return jsonResult(false), nil
	case listLabelsJS:
		return jsonResult(f.labels), nil
	case clickNthJS:
		i := args[1].(int)
		f.clickedNth = append(f.clickedNth, i)
		return jsonResult(i < len(f.labels)), nil
	}
	return gjson.Result{}, nil
}

func (f *fakePage) Click(context.Context, string) error { return nil }

func (f *fakePage) Type(_ context.Context, sel, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typed == nil {
		f.typed = map[string]string{}
	}
	f.typed[sel] = text
	return nil
}

func (f *fakePage) ScrollByViewport(context.Context, float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls++
	return nil
}

func (f *fakePage) Delay(_ context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, d)
	return nil
}

func (f *fakePage) HTML(context.Context) (string, error) { return f.html, f.htmlErr }

func (f *fakePage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

type fakeProvider struct {
	pages []*fakePage
	next  int
}

func (p *fakeProvider) NewPage(context.Context) (platform.Page, error) {
	pg := p.pages[p.next]
	if p.next < len(p.pages)-1 {
		p.next++
	}
	return pg, nil
}

func jsonResult(v any) gjson.Result {
	b, _ := json.Marshal(v)
	return gjson.ParseBytes(b)
}
