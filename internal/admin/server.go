// Package admin exposes the operator surface over HTTP: inspect pending
// submissions, retry or purge them, and export everything for manual
// handoff. The kiosk UI calls /open and /close around the admin overlay
// so the idle session is paused while an operator works.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/formkiosk/internal/common"
	"github.com/dmitrijs2005/formkiosk/internal/logging"
	"github.com/dmitrijs2005/formkiosk/internal/pipeline"
)

// Store is the slice of the backup store the admin surface needs.
type Store interface {
	ListPending(ctx context.Context) ([]string, error)
	Remove(ctx context.Context, reference string) error
	ExportAll(ctx context.Context) (string, error)
}

// Retrier re-attempts delivery of pending submissions.
type Retrier interface {
	RetryPending(ctx context.Context) ([]pipeline.RetryOutcome, error)
	RetryOne(ctx context.Context, reference string) error
}

// SessionControl pauses and resumes the kiosk idle session.
type SessionControl interface {
	Pause()
	Resume()
}

type Server struct {
	store   Store
	retrier Retrier
	session SessionControl
	log     logging.Logger
	router  *chi.Mux
}

func NewServer(store Store, retrier Retrier, session SessionControl, log logging.Logger) *Server {
	s := &Server{
		store:   store,
		retrier: retrier,
		session: session,
		log:     log,
		router:  chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Post("/open", s.handleOpen)
	s.router.Post("/close", s.handleClose)
	s.router.Get("/pending", s.handleListPending)
	s.router.Post("/pending/{reference}/retry", s.handleRetryOne)
	s.router.Delete("/pending/{reference}", s.handlePurge)
	s.router.Post("/retry", s.handleRetryAll)
	s.router.Post("/export", s.handleExport)

	return s
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	s.session.Pause()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.session.Resume()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	refs, err := s.store.ListPending(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if refs == nil {
		refs = []string{}
	}
	s.respond(w, http.StatusOK, map[string]any{"references": refs})
}

func (s *Server) handleRetryOne(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	err := s.retrier.RetryOne(r.Context(), reference)
	switch {
	case errors.Is(err, common.ErrNotFound):
		s.respond(w, http.StatusNotFound, map[string]any{"error": "unknown reference"})
	case err != nil:
		s.respond(w, http.StatusBadGateway, map[string]any{"reference": reference, "error": err.Error()})
	default:
		s.respond(w, http.StatusOK, map[string]any{"reference": reference, "uploaded": true})
	}
}

func (s *Server) handleRetryAll(w http.ResponseWriter, r *http.Request) {
	outcomes, err := s.retrier.RetryPending(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	type item struct {
		Reference string `json:"reference"`
		Uploaded  bool   `json:"uploaded"`
		Error     string `json:"error,omitempty"`
	}
	items := make([]item, 0, len(outcomes))
	for _, o := range outcomes {
		it := item{Reference: o.Reference, Uploaded: o.Err == nil}
		if o.Err != nil {
			it.Error = o.Err.Error()
		}
		items = append(items, it)
	}
	s.respond(w, http.StatusOK, map[string]any{"results": items})
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(r.Context(), chi.URLParam(r, "reference")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	path, err := s.store.ExportAll(r.Context())
	if errors.Is(err, common.ErrNothingToExport) {
		s.respond(w, http.StatusOK, map[string]any{"exported": false})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"exported": true, "path": path})
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "admin request failed", "path", r.URL.Path, "error", err)
	s.respond(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
}
