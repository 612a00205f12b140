// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Well-known snapshot blob names.
const (
	// SetupTreeSnapshot holds the last known tree.
	SetupTreeSnapshot = "setup-tree"
	// DiffTreeSnapshot holds the last applied change set.
	DiffTreeSnapshot = "diff-tree"
	// PushedTreeSnapshot is the client-side copy of the last tree the server accepted.
	PushedTreeSnapshot = "pushed-tree"
)

// Snapshot is an opaque serialized blob keyed by name.
type Snapshot struct {
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updated_at"`
}
