// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tree

import (
	"time"

	"github.com/MKhiriev/go-tree-mirror/models"
)

// Diff compares two snapshots and returns the change set that turns prev
// into next. The roots themselves are never emitted; their children are
// reported under "root/<name>".
//
// Records are ordered so that they can be applied front to back: within a
// folder, removals and in-place changes of existing children come first,
// additions last. A node whose type changed becomes a removal followed by an
// addition. Added and removed folders are emitted as one subtree record.
// Folder pairs with equal non-empty hashes are reported unchanged without
// descending into them.
func Diff(prev, next *models.Folder, timestamp time.Time) models.ChangeSet {
	if prev == nil {
		prev = models.NewFolder(RootSegment, "")
	}
	if next == nil {
		next = models.NewFolder(RootSegment, "")
	}

	var changes []models.ChangeRecord
	diffChildren(nil, prev, next, &changes)

	return models.NewChangeSet(timestamp, changes)
}

func diffChildren(prefix []string, prev, next *models.Folder, out *[]models.ChangeRecord) {
	for _, oldChild := range prev.Children {
		segments := appendSegment(prefix, oldChild.NodeName())
		path := JoinPath(segments...)

		_, newChild := next.Child(oldChild.NodeName())
		if newChild == nil {
			*out = append(*out, models.ChangeRecord{ChangeType: models.ChangeRemoved, Path: path, OldNode: oldChild.Clone()})
			continue
		}

		switch o := oldChild.(type) {
		case *models.File:
			n, ok := newChild.(*models.File)
			if !ok {
				*out = append(*out,
					models.ChangeRecord{ChangeType: models.ChangeRemoved, Path: path, OldNode: o.Clone()},
					models.ChangeRecord{ChangeType: models.ChangeAdded, Path: path, NewNode: newChild.Clone()},
				)
				continue
			}

			changeType := models.ChangeUnchanged
			if fileChanged(o, n) {
				changeType = models.ChangeModified
			}
			*out = append(*out, models.ChangeRecord{ChangeType: changeType, Path: path, OldNode: o.Clone(), NewNode: n.Clone()})

		case *models.Folder:
			n, ok := newChild.(*models.Folder)
			if !ok {
				*out = append(*out,
					models.ChangeRecord{ChangeType: models.ChangeRemoved, Path: path, OldNode: o.Clone()},
					models.ChangeRecord{ChangeType: models.ChangeAdded, Path: path, NewNode: newChild.Clone()},
				)
				continue
			}

			oldHeader := &models.Folder{Name: o.Name, ContentHash: o.ContentHash}
			newHeader := &models.Folder{Name: n.Name, ContentHash: n.ContentHash}
			if o.ContentHash != "" && o.ContentHash == n.ContentHash {
				*out = append(*out, models.ChangeRecord{ChangeType: models.ChangeUnchanged, Path: path, OldNode: oldHeader, NewNode: newHeader})
				continue
			}

			changeType := models.ChangeUnchanged
			if o.ContentHash != n.ContentHash {
				changeType = models.ChangeModified
			}
			*out = append(*out, models.ChangeRecord{ChangeType: changeType, Path: path, OldNode: oldHeader, NewNode: newHeader})
			diffChildren(segments, o, n, out)
		}
	}

	for _, newChild := range next.Children {
		if idx, _ := prev.Child(newChild.NodeName()); idx >= 0 {
			continue
		}
		path := JoinPath(appendSegment(prefix, newChild.NodeName())...)
		*out = append(*out, models.ChangeRecord{ChangeType: models.ChangeAdded, Path: path, NewNode: newChild.Clone()})
	}
}

// fileChanged reports whether applying next over prev would alter prev.
// Optional fields absent from next are kept by the patcher, so they never
// count as a change.
func fileChanged(prev, next *models.File) bool {
	if prev.ContentHash != next.ContentHash {
		return true
	}
	if next.Size != nil && (prev.Size == nil || *prev.Size != *next.Size) {
		return true
	}
	if next.LastModified != nil && (prev.LastModified == nil || !prev.LastModified.Equal(*next.LastModified)) {
		return true
	}
	return false
}

// filesMatch compares two files; optional fields are only compared when
// both sides carry them.
func filesMatch(a, b *models.File) bool {
	if a.ContentHash != b.ContentHash {
		return false
	}
	if a.Size != nil && b.Size != nil && *a.Size != *b.Size {
		return false
	}
	if a.LastModified != nil && b.LastModified != nil && !a.LastModified.Equal(*b.LastModified) {
		return false
	}
	return true
}

// appendSegment returns a fresh slice so siblings never share backing arrays.
func appendSegment(prefix []string, name string) []string {
	segments := make([]string, 0, len(prefix)+1)
	segments = append(segments, prefix...)
	return append(segments, name)
}
