// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// localSnapshotRepository keeps the last pushed tree in the client's SQLite
// database under [models.PushedTreeSnapshot].
type localSnapshotRepository struct {
	snapshots SnapshotRepository
	logger    *logger.Logger
}

// NewLocalSnapshotRepository wraps snapshots as a [LocalSnapshotRepository].
func NewLocalSnapshotRepository(snapshots SnapshotRepository, logger *logger.Logger) LocalSnapshotRepository {
	return &localSnapshotRepository{
		snapshots: snapshots,
		logger:    logger,
	}
}

func (r *localSnapshotRepository) LoadTree(ctx context.Context) (*models.Folder, error) {
	snapshot, err := r.snapshots.GetSnapshot(ctx, models.PushedTreeSnapshot)
	if err != nil {
		return nil, err
	}

	var root models.Folder
	if err = json.Unmarshal(snapshot.Content, &root); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localSnapshotRepository.LoadTree").Msg("cached tree is corrupted")
		return nil, fmt.Errorf("error decoding cached tree: %w", err)
	}

	return &root, nil
}

func (r *localSnapshotRepository) SaveTree(ctx context.Context, root *models.Folder) error {
	content, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("error encoding tree: %w", err)
	}

	return r.snapshots.SaveSnapshot(ctx, models.Snapshot{
		Name:    models.PushedTreeSnapshot,
		Content: content,
	})
}
