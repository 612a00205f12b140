// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST API of the tree mirror server.
//
// Every endpoint answers with the models.APIResponse envelope. Request
// tracing, access logging, metrics, compression and bearer authentication
// are handled here before requests reach the service layer.
package http
