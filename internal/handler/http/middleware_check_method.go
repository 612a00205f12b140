// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-tree-mirror/internal/utils"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// A method that the matched route does not serve is answered with 404
// instead of chi's default 405; a served method is handed back to router.
//
// Routes are matched by exact pattern against the request path.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var foundRoute chi.Route
		for _, route := range router.Routes() {
			if route.Pattern == r.URL.Path {
				foundRoute = route
				break
			}
		}

		if _, ok := foundRoute.Handlers[r.Method]; !ok {
			utils.WriteResponse(w, http.StatusNotFound, nil, http.StatusText(http.StatusNotFound))
			return
		}

		router.ServeHTTP(w, r)
	}
}
