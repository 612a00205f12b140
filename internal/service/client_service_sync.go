// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/adapter"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/models"
)

type clientSyncService struct {
	scanner  TreeScanner
	trees    store.LocalSnapshotRepository
	adapter  adapter.ServerAdapter
	auth     AuthService
	clientID string

	// mu serializes runs started by the ticker and the watcher.
	mu     sync.Mutex
	reset  bool
	now    func() time.Time
	logger *logger.Logger
}

func NewClientSyncService(scanner TreeScanner, trees store.LocalSnapshotRepository, serverAdapter adapter.ServerAdapter,
	auth AuthService, clientID string, logger *logger.Logger) ClientSyncService {
	return &clientSyncService{
		scanner:  scanner,
		trees:    trees,
		adapter:  serverAdapter,
		auth:     auth,
		clientID: clientID,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *clientSyncService) Sync(ctx context.Context) (models.Summary, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshToken(ctx); err != nil {
		return models.Summary{}, err
	}

	current, err := s.scanner.Scan(ctx)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.Sync").Msg("scan failed")
		return models.Summary{}, fmt.Errorf("scan: %w", err)
	}

	prev, err := s.trees.LoadTree(ctx)
	if errors.Is(err, store.ErrSnapshotNotFound) || (err == nil && s.reset) {
		return s.setup(ctx, current)
	}
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.Sync").Msg("failed to load last pushed tree")
		return models.Summary{}, fmt.Errorf("load last pushed tree: %w", err)
	}

	cs := tree.Diff(prev, current, s.now())
	if cs.Summary.Unchanged == cs.Summary.Total {
		log.Debug().Msg("nothing to push")
		return cs.Summary, nil
	}

	summary, err := s.adapter.PushChangeSet(ctx, cs)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.Sync").Msg("push failed")
		return models.Summary{}, fmt.Errorf("push change set: %w", err)
	}

	if err = s.trees.SaveTree(ctx, current); err != nil {
		return models.Summary{}, fmt.Errorf("save pushed tree: %w", err)
	}

	log.Info().
		Int("added", summary.Added).
		Int("removed", summary.Removed).
		Int("modified", summary.Modified).
		Msg("change set pushed")

	return summary, nil
}

func (s *clientSyncService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset = true
	logger.FromContext(ctx).Info().Msg("next sync will send the full tree")
	return nil
}

// setup sends the full tree. The returned summary counts every node as added.
func (s *clientSyncService) setup(ctx context.Context, current *models.Folder) (models.Summary, error) {
	if err := s.adapter.Setup(ctx, current); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncService.setup").Msg("setup failed")
		return models.Summary{}, fmt.Errorf("setup: %w", err)
	}

	if err := s.trees.SaveTree(ctx, current); err != nil {
		return models.Summary{}, fmt.Errorf("save pushed tree: %w", err)
	}
	s.reset = false

	folders, files := tree.Count(current)
	logger.FromContext(ctx).Info().Int("folders", folders).Int("files", files).Msg("full tree sent")

	return models.Summary{Total: folders + files, Added: folders + files}, nil
}

func (s *clientSyncService) refreshToken(ctx context.Context) error {
	if s.auth == nil || !s.auth.Enabled() {
		return nil
	}

	token, err := s.auth.CreateToken(ctx, s.clientID)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	s.adapter.SetToken(token.SignedString)

	return nil
}
