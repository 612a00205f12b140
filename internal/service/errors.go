// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrMalformedChange rejects a change set or snapshot before any mutation.
	ErrMalformedChange = errors.New("malformed change")

	// ErrReconcileFailed wraps the store error of the record that could not
	// be applied.
	ErrReconcileFailed = errors.New("reconcile failed")

	// ErrNoSnapshot is returned before the first setup.
	ErrNoSnapshot = errors.New("no tree has been set up yet")

	// ErrCorruptedSnapshot is returned when a stored blob cannot be decoded.
	ErrCorruptedSnapshot = errors.New("stored snapshot is corrupted")

	ErrVersionIsNotSpecified   = errors.New("version is not specified")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrAuthDisabled            = errors.New("authentication is disabled")
)
