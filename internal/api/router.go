// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillbridge/skillbridge/internal/config"
	"github.com/skillbridge/skillbridge/internal/middleware"
)

// NewRouter assembles the HTTP surface: middleware stack, versioned API
// routes, health probes, and the Prometheus endpoint.
func NewRouter(h *Handler, sec config.SecurityConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)

	if len(sec.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   sec.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if sec.RateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(sec.RateLimitRequests, sec.RateLimitWindow))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/recommendations/user/{userID}", func(r chi.Router) {
			r.Get("/", h.GetRecommendations)
			r.Delete("/cache", h.InvalidateCache)
		})

		r.Get("/similarity/user/{userID}/project/{projectID}", h.GetSimilarity)
		r.Get("/projects/{projectID}", h.GetProject)

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
