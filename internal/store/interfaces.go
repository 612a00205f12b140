// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-tree-mirror/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// FolderRepository persists folder rows. Filters match the parent exactly;
// a nil parent selects top-level folders.
type FolderRepository interface {
	// FindFolder returns the single folder matching filter or ErrFolderNotFound.
	FindFolder(ctx context.Context, filter models.FolderFilter) (models.FolderRecord, error)
	FindFolders(ctx context.Context, filter models.FolderFilter) ([]models.FolderRecord, error)
	CreateFolder(ctx context.Context, folder models.FolderRecord) (models.FolderRecord, error)
	UpdateFolder(ctx context.Context, folder models.FolderRecord) (models.FolderRecord, error)
	DeleteFolder(ctx context.Context, id int64) error
	DeleteFolders(ctx context.Context, filter models.FolderFilter) error
	AllFolders(ctx context.Context) ([]models.FolderRecord, error)
	DeleteAllFolders(ctx context.Context) error
}

// FileRepository persists file rows. Filters match the folder exactly;
// a nil folder selects files at the snapshot root.
type FileRepository interface {
	// FindFile returns the single file matching filter or ErrFileNotFound.
	FindFile(ctx context.Context, filter models.FileFilter) (models.FileRecord, error)
	FindFiles(ctx context.Context, filter models.FileFilter) ([]models.FileRecord, error)
	CreateFile(ctx context.Context, file models.FileRecord) (models.FileRecord, error)
	UpdateFile(ctx context.Context, file models.FileRecord) (models.FileRecord, error)
	DeleteFile(ctx context.Context, id int64) error
	DeleteFiles(ctx context.Context, filter models.FileFilter) error
	AllFiles(ctx context.Context) ([]models.FileRecord, error)
	DeleteAllFiles(ctx context.Context) error
}

// SnapshotRepository reads and replaces named snapshot blobs.
type SnapshotRepository interface {
	// GetSnapshot returns ErrSnapshotNotFound when name was never saved.
	GetSnapshot(ctx context.Context, name string) (models.Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error
}

// Transactor runs fn in one transaction carried by the context passed to it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
