// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/internal/validators"
)

type Services struct {
	AuthService      AuthService
	AppInfoService   AppInfoService
	ReconcileService ReconcileService
	TreeService      TreeService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	reconciler := NewReconcileService(storages.Folders, storages.Files, logger)
	treeService := NewTreeService(storages.Transactor, storages.Snapshots, storages.Folders, storages.Files, reconciler, logger)

	return &Services{
		AuthService:      NewAuthService(cfg.App, logger),
		AppInfoService:   appInfo,
		ReconcileService: reconciler,
		TreeService:      NewTreeValidationWrapper(validators.NewTreeValidator(), logger).Wrap(treeService),
	}, nil
}
