// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command treectl administers a tree-mirror deployment: it seeds and
// cleans the store, exports it, applies migrations and diffs or patches
// snapshot files offline.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
