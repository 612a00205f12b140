// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-tree-mirror/internal/utils"
	"github.com/MKhiriev/go-tree-mirror/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	utils.WriteResponse(w, http.StatusOK, models.VersionResponse{Version: serverVersion}, "")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteResponse(w, http.StatusNotFound, nil, http.StatusText(http.StatusNotFound))
}
