// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/utils"
)

var traceEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	traceID, _ := utils.GetTraceIDFromContext(r.Context())
	w.Write([]byte(traceID))
})

func TestWithTraceID_GeneratesUUID(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	rec := serve(h.withTraceID(traceEcho), http.MethodGet, "/", "")

	header := rec.Header().Get(traceIDHeader)
	_, err := uuid.Parse(header)
	require.NoError(t, err)
	assert.Equal(t, header, rec.Body.String())
}

func TestWithTraceID_ReusesIncomingID(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	req := newRequest(http.MethodGet, "/", "")
	req.Header.Set(traceIDHeader, "abc-123")
	rec := do(h.withTraceID(traceEcho), req)

	assert.Equal(t, "abc-123", rec.Header().Get(traceIDHeader))
	assert.Equal(t, "abc-123", rec.Body.String())
}

func TestWithTraceID_UniquePerRequest(t *testing.T) {
	h := &Handler{logger: logger.Nop()}
	handler := h.withTraceID(traceEcho)

	seen := make(map[string]struct{})
	for range 20 {
		id := serve(handler, http.MethodGet, "/", "").Header().Get(traceIDHeader)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
