package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/robinvdvleuten/beanreport/ast"
	errfmt "github.com/robinvdvleuten/beanreport/errors"
	"github.com/robinvdvleuten/beanreport/view"
)

type viewKey struct{}

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/toc", http.StatusFound)
	})
	r.Get("/toc", s.handleTOC)
	r.Get("/errors", s.handleErrors)
	r.Get("/status", s.handleStatus)
	r.Get("/events", s.handleSSE)

	r.Route("/view/all", s.mountView)
	r.Route("/view/{scope}/{param}", s.mountView)

	return r
}

// mountView registers the pages of a single view.
func (s *Server) mountView(r chi.Router) {
	r.Use(s.withView)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, viewFromContext(r.Context()).key+"/"+view.PageBalanceSheet, http.StatusFound)
	})
	r.Get("/"+view.PageJournal, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, viewFromContext(r.Context()).key+"/account/", http.StatusFound)
	})
	r.Get("/account/*", s.handleJournal)
	r.Get("/{page}", s.handlePage)
}

type requestView struct {
	key  string
	view *view.View
	snap *snapshot
}

func viewFromContext(ctx context.Context) *requestView {
	return ctx.Value(viewKey{}).(*requestView)
}

// withView resolves the view of the request path. Unknown scopes answer 404;
// views that fail to build answer 500 and are built again on the next
// request.
func (s *Server) withView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := view.KeyFromPath(r.URL.Path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		snap := s.current()
		if snap == nil {
			http.Error(w, "ledger not loaded", http.StatusServiceUnavailable)
			return
		}

		// A view shared with concurrent requests must not fail because
		// this client went away.
		v, err := snap.views.Get(context.WithoutCancel(r.Context()), key)
		switch {
		case errors.Is(err, view.ErrUnknownScope):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			log.Printf("Failed to build view %s: %v", key, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), viewKey{}, &requestView{key: key, view: v, snap: snap})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rv := viewFromContext(r.Context())
	page, err := rv.view.Page(chi.URLParam(r, "page"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSONResponse(w, page)
}

// handleJournal serves the journal of the account named by the rest of the
// path, with "/" separating components. An empty name is the whole ledger.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	rv := viewFromContext(r.Context())
	name := strings.Trim(chi.URLParam(r, "*"), "/")
	account := ast.Account(strings.ReplaceAll(name, "/", ":"))

	page, err := rv.view.Journal(account, rv.snap.ledger.BalanceFailed)
	switch {
	case errors.Is(err, view.ErrUnknownAccount):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, page)
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	if snap == nil {
		http.Error(w, "ledger not loaded", http.StatusServiceUnavailable)
		return
	}
	writeJSONResponse(w, map[string]any{
		"title": snap.views.Config().Title,
		"views": snap.views.Resolver().TableOfContents(),
		"pages": view.Pages,
	})
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	if snap == nil {
		http.Error(w, "ledger not loaded", http.StatusServiceUnavailable)
		return
	}

	formatter := errfmt.NewJSONFormatter()
	writeJSONResponse(w, map[string]any{"errors": formatter.FormatAllToSlice(snap.ledger.Errors())})
}

type statusResponse struct {
	Version     string    `json:"version,omitempty"`
	CommitSHA   string    `json:"commit,omitempty"`
	Root        string    `json:"root"`
	Includes    []string  `json:"includes"`
	LoadedAt    time.Time `json:"loaded_at"`
	Entries     int       `json:"entries"`
	Errors      int       `json:"errors"`
	CachedViews []string  `json:"cached_views"`
	Stale       bool      `json:"stale"`
	ReloadError string    `json:"reload_error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap, reloadErr := s.snap, s.reloadErr
	s.mu.RUnlock()

	if snap == nil {
		http.Error(w, "ledger not loaded", http.StatusServiceUnavailable)
		return
	}

	resp := statusResponse{
		Version:     s.Version,
		CommitSHA:   s.CommitSHA,
		Root:        snap.root,
		Includes:    snap.includes,
		LoadedAt:    snap.loadedAt,
		Entries:     len(snap.ledger.Entries()),
		Errors:      len(snap.ledger.Errors()),
		CachedViews: snap.views.Cache().Keys(),
		Stale:       reloadErr != nil,
	}
	if resp.Includes == nil {
		resp.Includes = []string{}
	}
	if reloadErr != nil {
		resp.ReloadError = reloadErr.Error()
	}
	writeJSONResponse(w, resp)
}

// writeJSONResponse writes v as a JSON response.
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
