// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

// ClientStorages groups the client-side repositories. The client only keeps
// the last tree accepted by the server.
type ClientStorages struct {
	DB *DB
	// Trees caches the last pushed snapshot.
	Trees LocalSnapshotRepository
}

// NewClientStorages opens (creating if needed) the SQLite file at
// cfg.DB.DSN, applies the client migrations and wires the snapshot cache.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		DB:    db,
		Trees: NewLocalSnapshotRepository(NewSnapshotRepository(db, logger), logger),
	}, nil
}

// Close releases the database file.
func (s *ClientStorages) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
