// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, h.withMetrics)

	// promhttp negotiates its own compression
	if h.metrics != nil {
		router.Method("GET", "/metrics", h.metrics.Handler())
	}

	router.Group(func(r chi.Router) {
		r.Use(withGZip)

		r.Get("/api/version", h.getServerVersion)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Post("/api/setup", h.setup)
			r.Get("/api/structure", h.structure)
			r.Get("/api/structure/store", h.storeStructure)
			r.Post("/api/updatediff", h.updateDiff)
			r.Post("/api/changeset", h.changeSet)
		})
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
