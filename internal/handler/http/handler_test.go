// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/metrics"
	"github.com/MKhiriev/go-tree-mirror/internal/mock"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type handlerMocks struct {
	tree    *mock.MockTreeService
	auth    *mock.MockAuthService
	appInfo *mock.MockAppInfoService
}

// newTestHandler builds a handler over mocked services. Authentication is
// disabled unless the test sets its own expectation on auth.Enabled first.
func newTestHandler(t *testing.T) (*Handler, handlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := handlerMocks{
		tree:    mock.NewMockTreeService(ctrl),
		auth:    mock.NewMockAuthService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}

	h := NewHandler(&service.Services{
		TreeService:    m.tree,
		AuthService:    m.auth,
		AppInfoService: m.appInfo,
	}, metrics.New(), logger.Nop())

	return h, m
}

func (m handlerMocks) authDisabled() {
	m.auth.EXPECT().Enabled().Return(false).AnyTimes()
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return httptest.NewRequest(method, target, reader)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	return do(h, newRequest(method, target, body))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(t, rec.Code, env.StatusCode)
	return env
}
