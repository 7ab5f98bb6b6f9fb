// Package server exposes a Backend over HTTP
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/rahulvramesh/shelf/internal/backend"
	"github.com/rahulvramesh/shelf/internal/types"
)

// Server holds the HTTP server state
type Server struct {
	backend backend.Backend
	log     logrus.FieldLogger
	router  chi.Router
}

// New creates a server over b
func New(b backend.Backend, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{backend: b, log: log}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/files", s.handleListFiles)
		r.Post("/files/bulk-delete", s.handleBulkDelete)
		r.Get("/files/{id}", s.handleGetFile)
		r.Put("/files/{id}", s.handleSaveFile)
		r.Delete("/files/{id}", s.handleDeleteFile)
		r.Post("/rescan", s.handleRescan)
		r.Get("/cleanup", s.handleCleanup)
		r.Get("/categories", s.handleCategories)
	})
	return r
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.WithField("addr", addr).Info("shelf API listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	})
}

// GET /api/files?category=memory&search=keyword
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	files, err := s.backend.ListFiles(r.Context(), backend.ListOptions{
		Category: types.Category(q.Get("category")),
		Search:   q.Get("search"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, files)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	fc, err := s.backend.GetFile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, fc)
}

func (s *Server) handleSaveFile(w http.ResponseWriter, r *http.Request) {
	var req types.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.backend.SaveFile(r.Context(), chi.URLParam(r, "id"), req.Content); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteFile(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true})
}

// POST /api/files/bulk-delete  {ids: ["id1","id2"]}
func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req types.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := s.backend.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	res, err := s.backend.Rescan(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	res, err := s.backend.AnalyzeCleanup(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.backend.Categories(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, cats)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, backend.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, backend.ErrReadOnly):
		status = http.StatusForbidden
	default:
		s.log.WithError(err).Error("request failed")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("JSON encode error")
	}
}
