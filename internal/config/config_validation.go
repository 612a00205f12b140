// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks the fields the server cannot start without.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.Version == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.App.TokenSignKey != "" && cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Scanner.RootDir == "" {
		return ErrInvalidScannerConfigs
	}

	if cfg.App.ClientID == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.App.TokenSignKey != "" && (cfg.App.TokenIssuer == "" || cfg.App.TokenDuration == 0) {
		return ErrInvalidAppConfigs
	}

	return nil
}
