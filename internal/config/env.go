// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment.
func parseEnv(cfg any) error {
	return parseEnviron(cfg, nil)
}

// parseEnviron fills cfg from environ through the `env` and `envPrefix`
// tags of [StructuredConfig]. A nil environ means the process environment.
func parseEnviron(cfg any, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
