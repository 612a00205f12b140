// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

type httpServer struct {
	server *http.Server
	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
	}

	return &httpServer{server: srv, logger: logger}
}

// serve blocks until the listener is closed. ready receives the bound
// address once listening.
func (h *httpServer) serve(ready chan<- string) error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen on %q: %w", h.server.Addr, err)
	}
	if ready != nil {
		ready <- ln.Addr().String()
	}

	h.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server listening")
	if err = h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http serve: %w", err)
	}

	return nil
}

func (h *httpServer) shutdown(ctx context.Context) error {
	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Err(err).Str("func", "httpServer.shutdown").Msg("HTTP server shutdown failed")
		return err
	}

	return nil
}
