// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// tree-mirror server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// the message field of the API response envelope.
package app

const (
	// MsgTreeSetUp accompanies a successful setup.
	MsgTreeSetUp = "tree set up"

	// MsgChangeSetApplied accompanies a successful change set or
	// snapshot update.
	MsgChangeSetApplied = "change set applied"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgInvalidGzipData is returned when a request claims gzip encoding
	// but its body does not decode.
	MsgInvalidGzipData = "invalid gzip data"
)
