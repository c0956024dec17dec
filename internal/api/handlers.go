// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package api exposes the recommendation engine over HTTP: chi routing,
// envelope responses, and parameter validation.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/skillbridge/skillbridge/internal/logging"
	"github.com/skillbridge/skillbridge/internal/metrics"
	"github.com/skillbridge/skillbridge/internal/recommend"
	"github.com/skillbridge/skillbridge/internal/validation"
)

// handlerTimeout bounds a single request's work.
const handlerTimeout = 10 * time.Second

// Pinger reports backend liveness, for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProjectReader serves the public project-detail endpoint.
type ProjectReader interface {
	GetProjectDetail(ctx context.Context, projectID int64) (*recommend.ProjectDetail, error)
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	engine   *recommend.Engine
	projects ProjectReader
	pinger   Pinger
	respond  *ResponseWriter
	logger   zerolog.Logger
}

// NewHandler creates the handler set.
func NewHandler(engine *recommend.Engine, projects ProjectReader, pinger Pinger, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		projects: projects,
		pinger:   pinger,
		respond:  NewResponseWriter(logger),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// recommendationParams is the validated query surface of the
// recommendations endpoint.
type recommendationParams struct {
	Limit         int `validate:"gte=0,lte=100"`
	MinSimilarity int `validate:"gte=0,lte=100"`
}

// GetRecommendations handles
// GET /api/v1/recommendations/user/{userID}?limit=&min_similarity=.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}

	params, ok := h.queryParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	resp, err := h.engine.GetRecommendations(ctx, recommend.Request{
		UserID:        userID,
		Limit:         params.Limit,
		MinSimilarity: params.MinSimilarity,
		RequestID:     logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.respond.Success(w, r, http.StatusOK, resp)
}

// GetSimilarity handles
// GET /api/v1/similarity/user/{userID}/project/{projectID}.
func (h *Handler) GetSimilarity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}
	projectID, ok := h.pathID(w, r, "projectID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	score, err := h.engine.ComputeSimilarity(ctx, userID, projectID)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.respond.Success(w, r, http.StatusOK, score)
}

// InvalidateCache handles
// DELETE /api/v1/recommendations/user/{userID}/cache.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}

	removed := h.engine.InvalidateUserCache(userID)
	metrics.RecordCacheInvalidation(removed)

	h.respond.Success(w, r, http.StatusOK, map[string]int{"removed": removed})
}

// GetProject handles GET /api/v1/projects/{projectID}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "projectID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	detail, err := h.projects.GetProjectDetail(ctx, projectID)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.respond.Success(w, r, http.StatusOK, detail)
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.respond.Success(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady handles GET /api/v1/health/ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			h.respond.Error(w, r, http.StatusServiceUnavailable, "NOT_READY", "database unavailable")
			return
		}
	}
	h.respond.Success(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		h.respond.BadRequest(w, r, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) queryParams(w http.ResponseWriter, r *http.Request) (recommendationParams, bool) {
	var params recommendationParams

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &params.Limit},
		{"min_similarity", &params.MinSimilarity},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.respond.BadRequest(w, r, p.name+" must be an integer")
			return params, false
		}
		*p.dst = v
	}

	if err := validation.Struct(params); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			h.respond.ValidationFailed(w, r, verr)
		} else {
			h.respond.Internal(w, r, err)
		}
		return params, false
	}
	return params, true
}

func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidArgument):
		h.respond.BadRequest(w, r, err.Error())
	case errors.Is(err, recommend.ErrNotFound):
		h.respond.NotFound(w, r, err.Error())
	default:
		h.respond.Internal(w, r, err)
	}
}
