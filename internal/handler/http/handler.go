// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/metrics"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
)

type Handler struct {
	services *service.Services
	metrics  *metrics.Metrics

	logger *logger.Logger
}

func NewHandler(services *service.Services, metrics *metrics.Metrics, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		metrics:  metrics,
		logger:   logger,
	}
}
