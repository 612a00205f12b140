// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-tree-mirror/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// TreeScanner produces a snapshot of the mirrored directory.
type TreeScanner interface {
	Scan(ctx context.Context) (*models.Folder, error)
}

// ClientSyncService mirrors the local directory to the server.
type ClientSyncService interface {
	// Sync scans the directory and sends the server whatever changed since
	// the last accepted push. The first run sends the full tree.
	Sync(ctx context.Context) (models.Summary, error)

	// Reset forgets the last accepted push, so the next Sync sends the
	// full tree again.
	Reset(ctx context.Context) error
}
