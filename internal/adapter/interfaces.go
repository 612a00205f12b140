// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's transport to the tree mirror server.
//
// [ServerAdapter] decouples the client services from HTTP. Non-2xx responses
// are mapped by mapHTTPError onto the sentinel errors in errors.go so callers
// can use [errors.Is] (e.g. [ErrNotFound] before the first setup).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-tree-mirror/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the tree mirror server.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to every subsequent request.
	SetToken(token string)

	// Token returns the current bearer token, or "" when none is set.
	Token() string

	// Version returns the server build version.
	Version(ctx context.Context) (string, error)

	// Setup replaces the server's last known tree with root.
	Setup(ctx context.Context, root *models.Folder) error

	// PushChangeSet applies cs on the server and returns the summary the
	// server recorded.
	PushChangeSet(ctx context.Context, cs models.ChangeSet) (models.Summary, error)

	// UpdateDiff sends the current tree and lets the server compute and
	// apply the change set. The applied change set is returned.
	UpdateDiff(ctx context.Context, root *models.Folder) (models.ChangeSet, error)

	// FetchStructure returns the server's last known tree. [ErrNotFound] is
	// returned before the first setup.
	FetchStructure(ctx context.Context) (*models.Folder, error)
}
