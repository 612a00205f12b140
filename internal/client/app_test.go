// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/metrics"
	"github.com/MKhiriev/go-tree-mirror/internal/mock"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
	"github.com/MKhiriev/go-tree-mirror/models"
)

func TestNewApp_RequiresSyncService(t *testing.T) {
	_, err := NewApp(nil, config.ClientConfig{}, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrNoSyncService)

	_, err = NewApp(&service.ClientServices{}, config.ClientConfig{}, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrNoSyncService)
}

func TestApp_RunSyncsUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockClientSyncService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	syncSvc.EXPECT().Sync(gomock.Any()).DoAndReturn(func(context.Context) (models.Summary, error) {
		cancel()
		return models.Summary{}, nil
	})

	cfg := config.ClientConfig{Workers: config.ClientWorkers{SyncInterval: time.Hour}}
	app, err := NewApp(&service.ClientServices{SyncService: syncSvc}, cfg, nil, logger.Nop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_WatchFailsOnMissingRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockClientSyncService(ctrl)
	syncSvc.EXPECT().Sync(gomock.Any()).Return(models.Summary{}, nil).AnyTimes()

	cfg := config.ClientConfig{
		Workers: config.ClientWorkers{SyncInterval: time.Hour},
		Scanner: config.ClientScanner{RootDir: t.TempDir() + "/missing", Watch: true},
	}
	app, err := NewApp(&service.ClientServices{SyncService: syncSvc}, cfg, nil, logger.Nop())
	require.NoError(t, err)

	err = app.Run(context.Background())
	assert.Error(t, err)
}

func TestApp_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockClientSyncService(ctrl)
	syncSvc.EXPECT().Reset(gomock.Any()).Return(nil)

	app, err := NewApp(&service.ClientServices{SyncService: syncSvc},
		config.ClientConfig{Workers: config.ClientWorkers{SyncInterval: time.Hour}}, nil, logger.Nop())
	require.NoError(t, err)

	assert.NoError(t, app.Reset(context.Background()))
}

func TestApp_RecordsSyncMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockClientSyncService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	syncSvc.EXPECT().Sync(gomock.Any()).DoAndReturn(func(context.Context) (models.Summary, error) {
		cancel()
		return models.Summary{}, nil
	})

	m := metrics.New()
	cfg := config.ClientConfig{Workers: config.ClientWorkers{SyncInterval: time.Hour}}
	app, err := NewApp(&service.ClientServices{SyncService: syncSvc}, cfg, m, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, app.Run(ctx))

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, family := range families {
		if family.GetName() == "tree_mirror_client_sync_runs_total" {
			found = true
		}
	}
	assert.True(t, found)
}
