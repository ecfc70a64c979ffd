// Package web exposes the reading service over HTTP.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/xeij/tellme/pkg/tellme"
	"github.com/xeij/tellme/pkg/tellme/content"
)

//go:embed index.html
var indexPage []byte

// Server wires the reading service to HTTP handlers.
type Server struct {
	svc *tellme.Service
	log zerolog.Logger
}

// NewServer builds a server around an opened reading service.
func NewServer(svc *tellme.Service, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/content/random", s.handleRandomContent)
		r.Post("/content/{id}/interaction", s.handleInteraction)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info().Str("addr", addr).Msg("web server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) handleRandomContent(w http.ResponseWriter, r *http.Request) {
	unit, ok, err := s.svc.Next(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("load content")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no content available")
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

// interactionRequest is the POST body for recording how a viewing ended.
type interactionRequest struct {
	FullyRead       bool  `json:"fully_read"`
	DurationSeconds int64 `json:"duration_seconds"`
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	contentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || contentID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := time.Duration(req.DurationSeconds) * time.Second
	var interaction content.Interaction
	if req.FullyRead {
		interaction = content.FullyRead(contentID, d)
	} else {
		interaction = content.Skipped(contentID, d)
	}

	if err := s.svc.Record(r.Context(), interaction); err != nil {
		s.log.Error().Err(err).Int64("content_id", contentID).Msg("record interaction")
		writeError(w, http.StatusInternalServerError, "failed to record interaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
