// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tree

import "github.com/MKhiriev/go-tree-mirror/models"

// Equal reports whether two nodes describe the same tree. Child order is
// ignored and an absent children list equals an empty one. File content
// payloads are not compared, nor are optional file fields missing on
// either side.
func Equal(a, b models.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.NodeName() != b.NodeName() || a.NodeHash() != b.NodeHash() {
		return false
	}

	switch x := a.(type) {
	case *models.File:
		y, ok := b.(*models.File)
		return ok && filesMatch(x, y)
	case *models.Folder:
		y, ok := b.(*models.Folder)
		if !ok || len(x.Children) != len(y.Children) {
			return false
		}
		for _, child := range x.Children {
			_, other := y.Child(child.NodeName())
			if !Equal(child, other) {
				return false
			}
		}
		return true
	}

	return false
}

// Count returns the number of folders and files below root, root excluded.
func Count(root *models.Folder) (folders, files int) {
	if root == nil {
		return 0, 0
	}

	stack := []*models.Folder{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range current.Children {
			switch c := child.(type) {
			case *models.Folder:
				folders++
				stack = append(stack, c)
			case *models.File:
				files++
			}
		}
	}

	return folders, files
}
