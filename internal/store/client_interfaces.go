// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-tree-mirror/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalSnapshotRepository is the client's cache of the last tree the
// server accepted.
type LocalSnapshotRepository interface {
	// LoadTree returns the cached tree, or ErrSnapshotNotFound before the first push.
	LoadTree(ctx context.Context) (*models.Folder, error)
	SaveTree(ctx context.Context, root *models.Folder) error
}
