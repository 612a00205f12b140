// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-tree-mirror/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ReconcileService applies change sets to the folder/file store.
type ReconcileService interface {
	// Reconcile applies changes in order. Records whose path does not
	// resolve are skipped; the first store error aborts the run.
	Reconcile(ctx context.Context, changes []models.ChangeRecord) error

	// ResolveOrCreateFolderPath walks segments from the top level,
	// creating missing folders, and returns the id of the last one
	// (nil for an empty path).
	ResolveOrCreateFolderPath(ctx context.Context, segments []string) (*int64, error)

	// Import creates or updates every node of root in the store.
	Import(ctx context.Context, root *models.Folder) error
}

// TreeService owns the last known snapshot and keeps the store in step
// with it.
type TreeService interface {
	Setup(ctx context.Context, root *models.Folder) error
	Current(ctx context.Context) (*models.Folder, error)
	ApplyChangeSet(ctx context.Context, cs models.ChangeSet) (*models.Folder, error)
	UpdateFromSnapshot(ctx context.Context, next *models.Folder) (models.ChangeSet, error)
	StoreStructure(ctx context.Context) (*models.Folder, error)
	Cleanup(ctx context.Context) error
}

type AuthService interface {
	// Enabled reports whether a sign key is configured.
	Enabled() bool
	CreateToken(ctx context.Context, clientID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

type TreeServiceWrapper interface {
	Wrap(TreeService) TreeService // returns a decorated TreeService applying additional behavior
}
