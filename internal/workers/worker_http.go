// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

const httpShutdownTimeout = 5 * time.Second

// HTTPWorker serves handler on addr for as long as it runs.
type HTTPWorker struct {
	server *http.Server
	logger *logger.Logger
}

func NewHTTPWorker(addr string, handler http.Handler, logger *logger.Logger) *HTTPWorker {
	return &HTTPWorker{
		server: &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: httpShutdownTimeout},
		logger: logger,
	}
}

func (w *HTTPWorker) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		w.logger.Info().Str("address", w.server.Addr).Msg("HTTP worker listening")
		serveErr <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http worker on %q: %w", w.server.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), httpShutdownTimeout)
	defer cancel()

	if err := w.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http worker shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
