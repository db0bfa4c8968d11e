// Package server exposes the character list view over HTTP.
package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Sternrassler/character-table/pkg/i18n"
	"github.com/Sternrassler/character-table/pkg/logging"
	"github.com/Sternrassler/character-table/pkg/metrics"
	"github.com/Sternrassler/character-table/pkg/view"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// FragmentPath serves the list fragment.
const FragmentPath = "/characters"

// Options configures the router.
type Options struct {
	// Fetcher backs every list view instance. Required.
	Fetcher view.CharacterFetcher

	// Ready reports whether backing services are reachable. Optional;
	// without it /ready always answers OK.
	Ready func(ctx context.Context) error
}

// readyTimeout bounds a single readiness check.
const readyTimeout = 2 * time.Second

type handler struct {
	fetcher view.CharacterFetcher
	ready   func(ctx context.Context) error
	logger  zerolog.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options) http.Handler {
	if opts.Fetcher == nil {
		panic("character fetcher cannot be nil")
	}

	h := &handler{
		fetcher: opts.Fetcher,
		ready:   opts.Ready,
		logger:  logging.NewLogger("server"),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(accessLog(h.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler)
	r.Get("/ready", h.readyHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/", h.page)
	r.Get(FragmentPath, h.fragment)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *handler) readyHandler(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := h.ready(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("Readiness check failed")
			http.Error(w, "Not Ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// page renders the document shell in the loading state.
func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	tag := i18n.ResolveTag(r)
	fragmentURL := FragmentPath + "?" + url.Values{i18n.LangParam: {tag.String()}}.Encode()

	templ.Handler(view.Page(i18n.Printer(tag), view.PageOptions{
		Lang:        tag.String(),
		FragmentURL: fragmentURL,
	})).ServeHTTP(w, r)
}

// fragment runs one fetch cycle on a fresh view instance and renders its
// terminal state. A client that disconnects cancels the fetch.
func (h *handler) fragment(w http.ResponseWriter, r *http.Request) {
	tag := i18n.ResolveTag(r)

	v := view.NewListView(h.fetcher)
	defer v.Close()

	model := v.Load(r.Context())

	h.logger.Debug().
		Str("view_id", v.ID()).
		Str("request_id", chimw.GetReqID(r.Context())).
		Str("state", model.State.String()).
		Int("rows", len(model.Rows)).
		Msg("Rendered character list")

	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(view.Fragment(i18n.Printer(tag), model)).ServeHTTP(w, r)
}

// accessLog logs one line per request.
func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("HTTP request")
		})
	}
}
