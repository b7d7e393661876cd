package mcp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lukman83/offerscrap/internal/platform"
	"github.com/lukman83/offerscrap/internal/scrape"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxRequestBody = 1 << 20

// Handler routes the HTTP surface: MCP at /mcp, the JSON batch endpoint at
// /scrape/start, plus /healthz and /metrics. A non-empty apiKey guards /mcp
// and /scrape/start with Bearer auth.
func (s *Server) Handler(apiKey string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if m := s.scraper.Metrics(); m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	mux.Handle("/mcp", withAuth(apiKey, server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))))
	mux.Handle("POST /scrape/start", withAuth(apiKey, http.HandlerFunc(s.handleScrapeStart)))

	return mux
}

// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr, apiKey string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(apiKey),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// a batch of several listing pages takes minutes
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{"component": "http", "addr": addr}).Info("offerscrap HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// scrapeStartRequest accepts {"url": "..."} or {"urls": ["...", ...]}.
type scrapeStartRequest struct {
	URL  any `json:"url"`
	URLs any `json:"urls"`
}

func (r scrapeStartRequest) targets() ([]string, error) {
	var urls []string
	if r.URLs != nil {
		list, ok := r.URLs.([]any)
		if !ok {
			return nil, platform.ErrInput
		}
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return nil, platform.ErrInput
			}
			urls = append(urls, s)
		}
		if len(urls) == 0 {
			return nil, platform.ErrInput
		}
	}
	var single string
	if r.URL != nil {
		s, ok := r.URL.(string)
		if !ok && urls == nil {
			return nil, platform.ErrInput
		}
		single = s
	}
	return scrape.Targets(single, urls)
}

func (s *Server) handleScrapeStart(w http.ResponseWriter, r *http.Request) {
	var req scrapeStartRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	urls, err := req.targets()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Provide url (string) or urls (string[])")
		return
	}

	res, err := s.scraper.ScrapeMany(r.Context(), urls)
	if err != nil {
		if scrape.IsInputError(err) {
			writeError(w, http.StatusBadRequest, "Provide url (string) or urls (string[])")
			return
		}
		log.WithField("component", "http").WithError(err).Warn("scrape request aborted")
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func withAuth(apiKey string, next http.Handler) http.Handler {
	if apiKey == "" {
		return next
	}
	return bearerAuth(apiKey, next)
}

func bearerAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="offerscrap"`)
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="offerscrap", error="invalid_token"`)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
