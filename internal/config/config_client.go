// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds the client identity and token parameters.
type ClientApp struct {
	// ClientID is the subject of the tokens the client signs.
	ClientID string
	// TokenSignKey is shared with the server; empty disables auth.
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the server address.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file holding the last pushed snapshot.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the scan-and-push job runs.
	SyncInterval time.Duration
	// WatchDebounce coalesces filesystem events.
	WatchDebounce time.Duration
	ResetOnStart  bool
}

// ClientScanner describes the mirrored directory.
type ClientScanner struct {
	RootDir string
	Watch   bool
}

// ClientMetrics configures the optional metrics listener of the agent.
type ClientMetrics struct {
	// HTTPAddress is empty when metrics are not served.
	HTTPAddress string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Scanner ClientScanner
	Metrics ClientMetrics
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			ClientID:      cfg.App.ClientID,
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{
			SyncInterval:  cfg.Workers.SyncInterval,
			WatchDebounce: cfg.Workers.WatchDebounce,
			ResetOnStart:  cfg.Workers.ResetOnStart,
		},
		Scanner: ClientScanner{
			RootDir: cfg.Scanner.RootDir,
			Watch:   cfg.Scanner.Watch,
		},
		Metrics: ClientMetrics{
			HTTPAddress: cfg.Server.HTTPAddress,
		},
	}
}
