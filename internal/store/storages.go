// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

// Storages groups the server-side repositories that share one PostgreSQL
// connection pool.
type Storages struct {
	DB         *DB
	Transactor Transactor
	Folders    FolderRepository
	Files      FileRepository
	Snapshots  SnapshotRepository
}

// NewStorages connects to PostgreSQL, applies pending migrations and wires
// every repository to the resulting pool.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewStoragesFromDB(db, logger), nil
}

// NewStoragesFromDB wires the repositories to an already opened db.
func NewStoragesFromDB(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		DB:         db,
		Transactor: db,
		Folders:    NewFolderRepository(db, logger),
		Files:      NewFileRepository(db, logger),
		Snapshots:  NewSnapshotRepository(db, logger),
	}
}

// Close releases the connection pool.
func (s *Storages) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
