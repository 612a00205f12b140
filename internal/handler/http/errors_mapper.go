// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-tree-mirror/internal/service"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
)

// errorStatuses is matched in order; a reconcile failure is classified by
// the store error it wraps.
var errorStatuses = []struct {
	target error
	status int
}{
	{ErrInvalidJSON, http.StatusBadRequest},
	{service.ErrMalformedChange, http.StatusBadRequest},
	{service.ErrNoSnapshot, http.StatusNotFound},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
	{store.ErrStoreConflict, http.StatusConflict},
	{store.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{store.ErrFolderNotFound, http.StatusNotFound},
	{store.ErrFileNotFound, http.StatusNotFound},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}
