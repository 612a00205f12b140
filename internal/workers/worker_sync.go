// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
)

// SyncWorker runs a sync once at start, then on every tick and every
// notification. Failed runs are logged and retried on the next wake-up.
type SyncWorker struct {
	sync     service.ClientSyncService
	interval time.Duration
	recorder SyncRecorder
	wake     chan struct{}

	logger *logger.Logger
}

// NewSyncWorker returns a worker that calls sync every interval. recorder may be nil.
func NewSyncWorker(sync service.ClientSyncService, interval time.Duration, recorder SyncRecorder, logger *logger.Logger) *SyncWorker {
	return &SyncWorker{
		sync:     sync,
		interval: interval,
		recorder: recorder,
		wake:     make(chan struct{}, 1),
		logger:   logger,
	}
}

// Notify schedules an extra run. Notifications that arrive while one is
// already pending are merged.
func (w *SyncWorker) Notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *SyncWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return ErrNonPositiveInterval
	}
	ctx = w.logger.WithContext(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sync worker stopped")
			return nil
		case <-ticker.C:
			w.runOnce(ctx)
		case <-w.wake:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	summary, err := w.sync.Sync(ctx)
	if errors.Is(err, context.Canceled) {
		return
	}
	if w.recorder != nil {
		w.recorder.RecordSync(err)
	}
	if err != nil {
		w.logger.Err(err).Str("func", "SyncWorker.runOnce").Msg("sync failed")
		return
	}

	w.logger.Debug().
		Int("total", summary.Total).
		Int("added", summary.Added).
		Int("removed", summary.Removed).
		Int("modified", summary.Modified).
		Msg("sync finished")
}
