// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChangeType classifies a single [ChangeRecord].
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeModified  ChangeType = "modified"
	ChangeUnchanged ChangeType = "unchanged"
)

// ChangeRecord describes what happened to one path between two snapshots.
//
// Path is slash-separated from the tree root; a leading "root" segment is
// synthetic and stripped before resolution. OldNode is set for removed,
// modified and unchanged records, NewNode for added, modified and unchanged.
type ChangeRecord struct {
	ChangeType ChangeType
	Path       string
	OldNode    Node
	NewNode    Node
}

// Summary holds per-type counts of a change set.
type Summary struct {
	Total     int `json:"total"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// ChangeSet is an ordered structural diff between two snapshots.
type ChangeSet struct {
	Timestamp time.Time      `json:"timestamp"`
	Summary   Summary        `json:"summary"`
	Changes   []ChangeRecord `json:"changes"`
}

// NewChangeSet builds a change set whose summary is computed from changes.
func NewChangeSet(timestamp time.Time, changes []ChangeRecord) ChangeSet {
	if changes == nil {
		changes = []ChangeRecord{}
	}

	return ChangeSet{
		Timestamp: timestamp,
		Summary:   Summarize(changes),
		Changes:   changes,
	}
}

// Summarize counts changes per type. Records with an unknown type only
// contribute to Total.
func Summarize(changes []ChangeRecord) Summary {
	summary := Summary{Total: len(changes)}
	for _, change := range changes {
		switch change.ChangeType {
		case ChangeAdded:
			summary.Added++
		case ChangeRemoved:
			summary.Removed++
		case ChangeModified:
			summary.Modified++
		case ChangeUnchanged:
			summary.Unchanged++
		}
	}

	return summary
}

type changeRecordJSON struct {
	ChangeType ChangeType      `json:"changeType"`
	Path       string          `json:"path"`
	OldNode    json.RawMessage `json:"oldNode,omitempty"`
	NewNode    json.RawMessage `json:"newNode,omitempty"`
}

// MarshalJSON implements [json.Marshaler].
func (c ChangeRecord) MarshalJSON() ([]byte, error) {
	out := changeRecordJSON{ChangeType: c.ChangeType, Path: c.Path}

	var err error
	if c.OldNode != nil {
		if out.OldNode, err = json.Marshal(c.OldNode); err != nil {
			return nil, fmt.Errorf("error marshaling oldNode at %q: %w", c.Path, err)
		}
	}
	if c.NewNode != nil {
		if out.NewNode, err = json.Marshal(c.NewNode); err != nil {
			return nil, fmt.Errorf("error marshaling newNode at %q: %w", c.Path, err)
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (c *ChangeRecord) UnmarshalJSON(data []byte) error {
	var in changeRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	record := ChangeRecord{ChangeType: in.ChangeType, Path: in.Path}

	var err error
	if isPresent(in.OldNode) {
		if record.OldNode, err = UnmarshalNode(in.OldNode); err != nil {
			return fmt.Errorf("error decoding oldNode at %q: %w", in.Path, err)
		}
	}
	if isPresent(in.NewNode) {
		if record.NewNode, err = UnmarshalNode(in.NewNode); err != nil {
			return fmt.Errorf("error decoding newNode at %q: %w", in.Path, err)
		}
	}

	*c = record
	return nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
