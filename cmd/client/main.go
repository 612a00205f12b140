// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	"github.com/MKhiriev/go-tree-mirror/internal/adapter"
	"github.com/MKhiriev/go-tree-mirror/internal/client"
	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/metrics"
	"github.com/MKhiriev/go-tree-mirror/internal/scanner"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	log := logger.NewClientLogger("tree-mirror-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	// the local database may live inside the mirrored directory
	skip := localDBFiles(cfg.Storage.DB.DSN)
	treeScanner := scanner.NewScanner(afero.NewOsFs(), cfg.Scanner.RootDir, log, skip...)

	services := service.NewClientServices(cfg.App, localStorage.Trees, treeScanner, serverAdapter, log)

	app, err := client.NewApp(services, *cfg, metrics.New(), log, skip...)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if cfg.Workers.ResetOnStart {
		if err = app.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("reset last pushed tree")
		}
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func localDBFiles(dsn string) []string {
	base := filepath.Base(dsn)
	return []string{base, base + "-journal", base + "-wal", base + "-shm"}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.Version())
	fmt.Printf("Build date: %s\n", info.Date())
	fmt.Printf("Build commit: %s\n", info.Commit())
}
