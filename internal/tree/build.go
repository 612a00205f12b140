// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tree

import "github.com/MKhiriev/go-tree-mirror/models"

// Build reconstructs a snapshot from persisted rows. The result is a
// synthetic "root" folder holding every top-level folder and root file.
// Rows are attached in the order given; rows whose parent is unknown are
// dropped. Folder hashes are not persisted and come back empty.
func Build(folders []models.FolderRecord, files []models.FileRecord) *models.Folder {
	root := models.NewFolder(RootSegment, "")

	byID := make(map[int64]*models.Folder, len(folders))
	for _, record := range folders {
		byID[record.ID] = models.NewFolder(record.Name, "")
	}

	for _, record := range folders {
		parent := parentFolder(root, byID, record.ParentID)
		if parent == nil {
			continue
		}
		parent.Children = append(parent.Children, byID[record.ID])
	}

	for _, record := range files {
		parent := parentFolder(root, byID, record.FolderID)
		if parent == nil {
			continue
		}
		parent.Children = append(parent.Children, models.NewFile(record.Name, record.ContentHash, record.Size, record.LastModified))
	}

	return root
}

func parentFolder(root *models.Folder, byID map[int64]*models.Folder, id *int64) *models.Folder {
	if id == nil {
		return root
	}
	return byID[*id]
}
