// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/handler"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/metrics"
	"github.com/MKhiriev/go-tree-mirror/internal/server"
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

	log := logger.NewLogger("tree-mirror-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Bool("auth", cfg.App.TokenSignKey != "").Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, metrics.New(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.Version())
	fmt.Printf("Build date: %s\n", info.Date())
	fmt.Printf("Build commit: %s\n", info.Commit())
}
