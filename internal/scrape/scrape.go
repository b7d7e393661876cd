// Package scrape runs batches of listing URLs through the store adapters.
package scrape

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lukman83/offerscrap/internal/models"
	"github.com/lukman83/offerscrap/internal/platform"
	"github.com/lukman83/offerscrap/internal/stealth"
	log "github.com/sirupsen/logrus"
)

// Failure describes one URL that contributed no offers because of an error.
type Failure struct {
	URL   string         `json:"url"`
	Store models.StoreID `json:"store"`
	Error string         `json:"error"`
}

// Result is a batch's output: offers in input-URL order, then DOM order.
type Result struct {
	Items    []models.Offer `json:"items"`
	Failures []Failure      `json:"failures"`
}

// Scraper owns the session state and runs one batch at a time. Concurrent
// callers queue on an internal lock.
type Scraper struct {
	mu       sync.Mutex
	registry *platform.Registry
	pages    platform.PageProvider
	session  *platform.SessionState
	gate     *stealth.Gate
	metrics  *Metrics
}

type Option func(*Scraper)

// WithGate paces and filters page visits.
func WithGate(g *stealth.Gate) Option { return func(s *Scraper) { s.gate = g } }

func WithMetrics(m *Metrics) Option { return func(s *Scraper) { s.metrics = m } }

// WithSession shares bootstrap state with another scraper.
func WithSession(st *platform.SessionState) Option { return func(s *Scraper) { s.session = st } }

func New(registry *platform.Registry, pages platform.PageProvider, opts ...Option) *Scraper {
	s := &Scraper{
		registry: registry,
		pages:    pages,
		session:  platform.NewSessionState(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scraper) Registry() *platform.Registry { return s.registry }

func (s *Scraper) Metrics() *Metrics { return s.metrics }

// ScrapeMany scrapes urls sequentially and concatenates the offers. URLs of
// unknown stores contribute nothing. Adapter failures are reported in
// Result.Failures and never abort the batch; once a store's session setup
// fails, its remaining URLs in the batch are skipped. The only errors
// returned are platform.ErrInput and ctx cancellation.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string) (Result, error) {
	targets := CleanURLs(urls)
	if len(targets) == 0 {
		return Result{}, platform.ErrInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	entry := log.WithFields(log.Fields{"component": "scrape", "run_id": runID})
	entry.WithField("urls", len(targets)).Info("batch started")
	if s.metrics != nil {
		s.metrics.Batches.Inc()
	}

	res := Result{Items: []models.Offer{}, Failures: []Failure{}}
	setupFailed := make(map[models.StoreID]error)
	visited := 0

	for i, u := range targets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ue := entry.WithField("url", u)

		store := s.registry.ResolveStore(u)
		if store == models.StoreUnknown {
			ue.Warn("no adapter for url")
			s.metrics.page(string(store), OutcomeUnknown)
			continue
		}
		ue = ue.WithField("store", store)
		adapter, err := s.registry.Get(store)
		if err != nil {
			res.Failures = append(res.Failures, Failure{URL: u, Store: store, Error: err.Error()})
			continue
		}

		if prev, ok := setupFailed[store]; ok {
			ue.Info("skipped after failed session setup")
			s.metrics.page(string(store), OutcomeSkipped)
			res.Failures = append(res.Failures, Failure{URL: u, Store: store, Error: "skipped: " + prev.Error()})
			continue
		}

		if visited > 0 {
			if err := s.gate.Pause(ctx, u); err != nil {
				return res, err
			}
		}
		if err := s.gate.Admit(ctx, u); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			ue.WithError(err).Warn("visit refused")
			s.metrics.page(string(store), OutcomeDisallowed)
			res.Failures = append(res.Failures, Failure{URL: u, Store: store, Error: err.Error()})
			continue
		}
		visited++

		platform.ReportProgress(ctx, "[%d/%d] %s", i+1, len(targets), u)
		start := time.Now()
		offers, err := adapter.Scrape(ctx, s.pages, u, s.session)
		if s.metrics != nil {
			s.metrics.PageSeconds.WithLabelValues(string(store)).Observe(time.Since(start).Seconds())
		}
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			ue.WithError(err).Error("scrape failed")
			s.metrics.page(string(store), OutcomeFailed)
			if platform.IsSessionSetup(err) {
				setupFailed[store] = err
				if s.metrics != nil {
					s.metrics.BootstrapFailures.WithLabelValues(string(store)).Inc()
				}
			}
			res.Failures = append(res.Failures, Failure{URL: u, Store: store, Error: err.Error()})
			continue
		}

		if len(offers) == 0 {
			s.metrics.page(string(store), OutcomeEmpty)
		} else {
			s.metrics.page(string(store), OutcomeOK)
		}
		if s.metrics != nil {
			s.metrics.Offers.WithLabelValues(string(store)).Add(float64(len(offers)))
		}
		ue.WithField("offers", len(offers)).Info("page done")
		res.Items = append(res.Items, offers...)
	}

	entry.WithFields(log.Fields{"offers": len(res.Items), "failures": len(res.Failures)}).Info("batch finished")
	return res, nil
}

// CleanURLs trims every entry and drops the empty ones, keeping order.
func CleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Targets picks the batch from the two accepted input shapes: a list
// wins when present, otherwise the single url.
func Targets(url string, urls []string) ([]string, error) {
	var out []string
	if len(urls) > 0 {
		out = CleanURLs(urls)
	} else {
		out = CleanURLs([]string{url})
	}
	if len(out) == 0 {
		return nil, platform.ErrInput
	}
	return out, nil
}

// IsInputError reports whether err means the batch had no usable URL.
func IsInputError(err error) bool {
	return errors.Is(err, platform.ErrInput)
}
