// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
type Server interface {
	// RunServer serves requests until ctx is done, then shuts down
	// gracefully. It returns early if the listener fails.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown(ctx context.Context) error
}
