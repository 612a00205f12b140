// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-tree-mirror/internal/adapter"
	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
)

type ClientServices struct {
	AuthService AuthService
	SyncService ClientSyncService
}

func NewClientServices(cfg config.ClientApp, trees store.LocalSnapshotRepository, scanner TreeScanner,
	serverAdapter adapter.ServerAdapter, logger *logger.Logger) *ClientServices {
	auth := NewAuthService(config.App{
		TokenSignKey:  cfg.TokenSignKey,
		TokenIssuer:   cfg.TokenIssuer,
		TokenDuration: cfg.TokenDuration,
	}, logger)

	return &ClientServices{
		AuthService: auth,
		SyncService: NewClientSyncService(scanner, trees, serverAdapter, auth, cfg.ClientID, logger),
	}
}
