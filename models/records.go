// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// FolderRecord is a persisted folder row. ParentID is nil for top-level folders.
type FolderRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// FileRecord is a persisted file row. FolderID is nil for files that live
// directly under the snapshot root.
type FileRecord struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	FolderID     *int64    `json:"folder_id,omitempty"`
	ContentHash  string    `json:"content_hash"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// FolderFilter selects folder rows. An empty Name matches any name;
// ParentID is always matched exactly, nil meaning top level.
type FolderFilter struct {
	Name     string
	ParentID *int64
}

// FileFilter selects file rows. An empty Name matches any name;
// FolderID is always matched exactly, nil meaning the root.
type FileFilter struct {
	Name     string
	FolderID *int64
}
