// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tree holds the pure in-memory algorithms over snapshots:
// applying a change set, diffing two snapshots, comparing them and
// rebuilding a snapshot from persisted rows.
package tree

import "github.com/MKhiriev/go-tree-mirror/models"

// ApplyChangeSet applies changes to root in order, mutating it, and returns
// root. Records whose path does not resolve are skipped.
func ApplyChangeSet(root *models.Folder, changes []models.ChangeRecord) *models.Folder {
	for _, change := range changes {
		ApplyChange(root, change)
	}

	return root
}

// ApplyChange applies a single record to root. It reports whether the tree
// was changed.
func ApplyChange(root *models.Folder, change models.ChangeRecord) bool {
	segments := SplitPath(change.Path)
	if len(segments) == 0 {
		return false
	}

	switch change.ChangeType {
	case models.ChangeAdded:
		if change.NewNode == nil {
			return false
		}
		return insertNode(root, segments, change.NewNode)
	case models.ChangeRemoved:
		return removeNode(root, segments)
	case models.ChangeModified:
		if change.NewNode == nil {
			return false
		}
		return updateNode(root, segments, change.NewNode)
	default:
		return false
	}
}

// insertNode appends node at segments, auto-creating missing intermediate
// folders. An existing sibling with the same name wins.
func insertNode(root *models.Folder, segments []string, node models.Node) bool {
	current := root
	for _, name := range segments[:len(segments)-1] {
		if current.Children == nil {
			current.Children = []models.Node{}
		}

		_, child := current.Child(name)
		if child == nil {
			folder := models.NewFolder(name, "")
			current.Children = append(current.Children, folder)
			current = folder
			continue
		}

		folder, ok := child.(*models.Folder)
		if !ok {
			// a file sits where the path needs a folder
			return false
		}
		current = folder
	}

	leaf := segments[len(segments)-1]
	if idx, _ := current.Child(leaf); idx >= 0 {
		return false
	}

	if current.Children == nil {
		current.Children = []models.Node{}
	}
	current.Children = append(current.Children, node.Clone())

	return true
}

func removeNode(root *models.Folder, segments []string) bool {
	parent := resolveParent(root, segments)
	if parent == nil {
		return false
	}

	idx, _ := parent.Child(segments[len(segments)-1])
	if idx < 0 {
		return false
	}

	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	return true
}

// updateNode overwrites the node at segments in its slot. The slot keeps
// its name; hash and type come from next.
func updateNode(root *models.Folder, segments []string, next models.Node) bool {
	parent := resolveParent(root, segments)
	if parent == nil {
		return false
	}

	idx, current := parent.Child(segments[len(segments)-1])
	if idx < 0 {
		return false
	}

	parent.Children[idx] = mergeNode(current, next)
	return true
}

func mergeNode(current, next models.Node) models.Node {
	switch n := next.(type) {
	case *models.File:
		file, ok := current.(*models.File)
		if !ok {
			file = &models.File{Name: current.NodeName()}
		}
		file.ContentHash = n.ContentHash

		patch := n.Clone().(*models.File)
		if patch.Size != nil {
			file.Size = patch.Size
		}
		if patch.LastModified != nil {
			file.LastModified = patch.LastModified
		}
		if patch.Content != nil {
			file.Content = patch.Content
		}
		return file

	case *models.Folder:
		folder, ok := current.(*models.Folder)
		if !ok {
			folder = models.NewFolder(current.NodeName(), "")
		}
		folder.ContentHash = n.ContentHash

		if n.Children != nil {
			folder.Children = n.CloneFolder().Children
		}
		return folder
	}

	return current
}

// resolveParent follows existing folders down to the parent of the last
// segment. It returns nil when any intermediate segment is missing or is
// not a folder.
func resolveParent(root *models.Folder, segments []string) *models.Folder {
	current := root
	for _, name := range segments[:len(segments)-1] {
		_, child := current.Child(name)
		folder, ok := child.(*models.Folder)
		if !ok {
			return nil
		}
		current = folder
	}

	return current
}
