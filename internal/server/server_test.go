// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/handler"
	handlerhttp "github.com/MKhiriev/go-tree-mirror/internal/handler/http"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
)

type staticVersion string

func (v staticVersion) GetAppVersion(context.Context) string { return string(v) }

func TestNewServer_Invalid(t *testing.T) {
	withHandler := &handler.Handlers{HTTP: handlerhttp.NewHandler(&service.Services{}, nil, logger.Nop())}

	tests := []struct {
		name     string
		handlers *handler.Handlers
		cfg      config.Server
		wantErr  error
	}{
		{name: "nil handlers", cfg: config.Server{HTTPAddress: ":8080"}, wantErr: errNoHTTPHandler},
		{name: "no http handler", handlers: &handler.Handlers{}, cfg: config.Server{HTTPAddress: ":8080"}, wantErr: errNoHTTPHandler},
		{name: "no address", handlers: withHandler, wantErr: errNoHTTPAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(tt.handlers, tt.cfg, logger.Nop())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunServer_ServesUntilCancelled(t *testing.T) {
	services := &service.Services{AppInfoService: staticVersion("1.2.3")}
	handlers := &handler.Handlers{HTTP: handlerhttp.NewHandler(services, nil, logger.Nop())}

	srv, err := NewServer(handlers, config.Server{HTTPAddress: "127.0.0.1:0", RequestTimeout: 5 * time.Second}, logger.Nop())
	require.NoError(t, err)

	ready := make(chan string, 1)
	srv.(*server).ready = ready

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunServer(ctx) }()

	var addr string
	select {
	case addr = <-ready:
	case err = <-done:
		t.Fatalf("server stopped early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/api/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Version string `json:"version"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1.2.3", body.Data.Version)

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServer_ListenError(t *testing.T) {
	srv := &server{
		httpServer: newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: "127.0.0.1:99999"}, logger.Nop()),
		logger:     logger.Nop(),
	}

	err := srv.RunServer(context.Background())
	assert.Error(t, err)
}
