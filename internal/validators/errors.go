// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrNilTree              = errors.New("tree is required")
	ErrNilNode              = errors.New("node is required")
	ErrEmptyNodeName        = errors.New("node name is required")
	ErrInvalidNodeName      = errors.New("node name must not contain '/'")
	ErrDuplicateSiblingName = errors.New("sibling names must be distinct")
	ErrNegativeSize         = errors.New("file size must not be negative")

	ErrUnknownChangeType = errors.New("unknown change type")
	ErrEmptyPath         = errors.New("change path must name a node below the root")
	ErrMissingOldNode    = errors.New("oldNode is required for this change type")
	ErrMissingNewNode    = errors.New("newNode is required for this change type")
	ErrPathNameMismatch  = errors.New("last path segment must equal the node name")
	ErrSummaryMismatch   = errors.New("summary does not match changes")
)
