// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// snapshotRepository stores named JSON blobs in "tree_snapshots". It runs
// unchanged on PostgreSQL and SQLite.
type snapshotRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSnapshotRepository constructs a [SnapshotRepository] backed by db.
func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotRepository {
	return &snapshotRepository{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *snapshotRepository) GetSnapshot(ctx context.Context, name string) (models.Snapshot, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.selectSnapshot(name)
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.GetSnapshot").Msg("failed to create query")
		return models.Snapshot{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var snapshot models.Snapshot
	var content string
	err = r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&snapshot.Name, &content, &snapshot.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.GetSnapshot").Str("name", name).Msg("failed to read snapshot")
		return models.Snapshot{}, r.mapError(ErrExecutingQuery, err)
	}
	snapshot.Content = []byte(content)

	return snapshot, nil
}

// SaveSnapshot inserts or replaces the blob stored under snapshot.Name.
func (r *snapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.upsertSnapshot(snapshot, r.now())
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.SaveSnapshot").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.SaveSnapshot").
			Str("name", snapshot.Name).
			Int("size", len(snapshot.Content)).
			Msg("failed to save snapshot")
		return r.mapError(ErrExecutingStatement, err)
	}

	return nil
}
