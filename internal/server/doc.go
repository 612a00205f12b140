// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the HTTP API server.
//
// It owns the listener lifecycle: startup, stop on context cancellation
// and graceful shutdown within a bounded period.
package server
