// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the mirroring agent runtime.
//
// It runs the periodic scan-and-push job and, optionally, a filesystem
// watcher that triggers extra runs between ticks.
package client
