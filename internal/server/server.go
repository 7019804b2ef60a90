// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the aggregation engine as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Cylabeth/pokedeck/internal/pokeapi"
	"github.com/Cylabeth/pokedeck/internal/search"
)

// Server wires the engine's query operations to HTTP routes. Every
// endpoint is a pure read; the only side effect is cache population.
type Server struct {
	engine *search.Engine
	logger zerolog.Logger
}

// New creates a Server.
func New(engine *search.Engine, logger zerolog.Logger) *Server {
	return &Server{
		engine: engine,
		logger: logger.With().Str("component", "server").Logger(),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/index", s.handleIndex)
		r.Get("/generations", s.handleGenerations)
		r.Get("/generations/index", s.handleGenerationsIndex)
		r.Get("/types", s.handleTypes)
		r.Get("/pokemon/{name}", s.handleDetail)
		r.Post("/hydrate", s.handleHydrate)
		r.Post("/expand", s.handleExpand)
	})
	return r
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := search.Params{
		Q:          q.Get("q"),
		Generation: q.Get("generation"),
		Type:       q.Get("type"),
	}

	var err error
	if params.Cursor, err = intParam(q.Get("cursor"), 0); err != nil {
		s.respondError(w, r, errors.Join(search.ErrInvalidInput, err))
		return
	}
	if params.Limit, err = intParam(q.Get("limit"), 0); err != nil {
		s.respondError(w, r, errors.Join(search.ErrInvalidInput, err))
		return
	}

	result, err := s.engine.Search(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := s.engine.IndexAll(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	gens, err := s.engine.Generations(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, gens)
}

func (s *Server) handleGenerationsIndex(w http.ResponseWriter, r *http.Request) {
	byName, err := s.engine.GenerationsIndex(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, byName)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.engine.Types(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, types)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.engine.Detail(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, detail)
}

// namesRequest is the body of the batch endpoints.
type namesRequest struct {
	Names []string `json:"names"`
}

func (s *Server) handleHydrate(w http.ResponseWriter, r *http.Request) {
	var req namesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, errors.Join(search.ErrInvalidInput, err))
		return
	}
	items, err := s.engine.Hydrate(r.Context(), req.Names)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req namesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, errors.Join(search.ErrInvalidInput, err))
		return
	}
	names, err := s.engine.ExpandRelated(r.Context(), req.Names)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, names)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the error taxonomy to status codes: invalid input
// is the client's fault, an unknown name is a distinct not-found state,
// and upstream failures surface as bad gateway so the client can render
// a transient-failure state.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, search.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, search.ErrNotFound):
		status = http.StatusNotFound
	default:
		var se *pokeapi.StatusError
		if errors.As(err, &se) {
			status = http.StatusBadGateway
		}
	}

	if status >= 500 {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}
	s.respondJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
