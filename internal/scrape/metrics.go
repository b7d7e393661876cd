package scrape

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page outcomes recorded in offerscrap_pages_total.
const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeFailed     = "failed"
	OutcomeSkipped    = "skipped"
	OutcomeDisallowed = "disallowed"
	OutcomeUnknown    = "unknown_store"
)

// Metrics is a private prometheus registry for scrape activity.
type Metrics struct {
	reg               *prometheus.Registry
	Batches           prometheus.Counter
	Pages             *prometheus.CounterVec
	Offers            *prometheus.CounterVec
	PageSeconds       *prometheus.HistogramVec
	BootstrapFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	batches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offerscrap_batches_total",
		Help: "Scrape batches started.",
	})
	pages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offerscrap_pages_total",
		Help: "Listing URLs processed, by store and outcome.",
	}, []string{"store", "outcome"})
	offers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offerscrap_offers_total",
		Help: "Normalized offers extracted.",
	}, []string{"store"})
	pageSeconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "offerscrap_page_seconds",
		Help:    "Time spent scraping one listing URL.",
		Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
	}, []string{"store"})
	bootstrap := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offerscrap_session_setup_failures_total",
		Help: "Interactive session setups that failed.",
	}, []string{"store"})

	r.MustRegister(batches, pages, offers, pageSeconds, bootstrap)
	return &Metrics{
		reg:               r,
		Batches:           batches,
		Pages:             pages,
		Offers:            offers,
		PageSeconds:       pageSeconds,
		BootstrapFailures: bootstrap,
	}
}

func (m *Metrics) Handler() http.Handler { return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}) }

func (m *Metrics) page(store, outcome string) {
	if m == nil {
		return
	}
	m.Pages.WithLabelValues(store, outcome).Inc()
}
