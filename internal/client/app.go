// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/metrics"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
	"github.com/MKhiriev/go-tree-mirror/internal/workers"
)

const defaultWatchDebounce = 500 * time.Millisecond

type App struct {
	services *service.ClientServices
	workers  *workers.Workers
	logger   *logger.Logger
}

// NewApp wires the sync job and, when cfg.Scanner.Watch is set, the
// filesystem watcher that wakes it up. With m set, sync outcomes are
// recorded and served on cfg.Metrics.HTTPAddress if that is not empty.
// Entries named in skip are not watched.
func NewApp(services *service.ClientServices, cfg config.ClientConfig, m *metrics.Metrics,
	logger *logger.Logger, skip ...string) (*App, error) {
	if services == nil || services.SyncService == nil {
		return nil, ErrNoSyncService
	}

	var recorder workers.SyncRecorder
	if m != nil {
		recorder = m
	}

	syncWorker := workers.NewSyncWorker(services.SyncService, cfg.Workers.SyncInterval, recorder, logger)
	jobs := []workers.Worker{syncWorker}

	if cfg.Scanner.Watch {
		debounce := cfg.Workers.WatchDebounce
		if debounce <= 0 {
			debounce = defaultWatchDebounce
		}
		jobs = append(jobs, workers.NewWatchWorker(cfg.Scanner.RootDir, debounce, syncWorker, logger, skip...))
	}

	if m != nil && cfg.Metrics.HTTPAddress != "" {
		jobs = append(jobs, workers.NewHTTPWorker(cfg.Metrics.HTTPAddress, m.Handler(), logger))
	}

	return &App{
		services: services,
		workers:  workers.NewWorkers(jobs...),
		logger:   logger,
	}, nil
}

// Run blocks until ctx is cancelled or a worker fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Msg("client started")

	if err := a.workers.Run(ctx); err != nil {
		a.logger.Err(err).Str("func", "App.Run").Msg("worker failed")
		return fmt.Errorf("run workers: %w", err)
	}

	a.logger.Info().Msg("client stopped")
	return nil
}

// Reset makes the next sync send the full tree.
func (a *App) Reset(ctx context.Context) error {
	return a.services.SyncService.Reset(ctx)
}
