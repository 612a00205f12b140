// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// withMetrics records request counts and latency labelled by route
// pattern, so path parameters do not blow up label cardinality.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	if h.metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		status := mw.status
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.RecordHTTPRequest(r.Method, path, status, time.Since(start))
	})
}
