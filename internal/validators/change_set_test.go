// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/models"
)

var testTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func file(name, hash string, size int64) *models.File {
	return models.NewFile(name, hash, size, testTime)
}

func validChangeSet() models.ChangeSet {
	return models.NewChangeSet(testTime, []models.ChangeRecord{
		{ChangeType: models.ChangeAdded, Path: "root/docs/b.txt", NewNode: file("b.txt", "h2", 5)},
		{ChangeType: models.ChangeModified, Path: "root/docs/a.txt", OldNode: file("a.txt", "h1", 10), NewNode: file("a.txt", "h1v2", 15)},
		{ChangeType: models.ChangeRemoved, Path: "root/old", OldNode: models.NewFolder("old", "")},
		{ChangeType: models.ChangeUnchanged, Path: "root/docs", OldNode: &models.Folder{Name: "docs"}, NewNode: &models.Folder{Name: "docs"}},
	})
}

func TestNewTreeValidator(t *testing.T) {
	require.NotNil(t, NewTreeValidator())
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewTreeValidator()
	ctx := context.Background()
	cs := validChangeSet()

	assert.NoError(t, v.Validate(ctx, cs))
	assert.NoError(t, v.Validate(ctx, &cs))
	assert.NoError(t, v.Validate(ctx, cs.Changes[0]))
	assert.NoError(t, v.Validate(ctx, &cs.Changes[0]))
	assert.NoError(t, v.Validate(ctx, models.NewFolder("root", "")))

	assert.ErrorIs(t, v.Validate(ctx, "nope"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, (*models.ChangeSet)(nil)), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, cs, "bogus"), ErrUnknownField)
}

func TestValidate_ChangeSetSummary(t *testing.T) {
	cs := validChangeSet()
	cs.Summary.Added = 3

	err := NewTreeValidator().Validate(context.Background(), cs)
	assert.ErrorIs(t, err, ErrSummaryMismatch)

	// scoped to records only, the bad summary is ignored
	assert.NoError(t, NewTreeValidator().Validate(context.Background(), cs, FieldChanges))
}

func TestValidate_ChangeRecord(t *testing.T) {
	tests := []struct {
		name    string
		change  models.ChangeRecord
		wantErr error
	}{
		{
			name:    "unknown type",
			change:  models.ChangeRecord{ChangeType: "renamed", Path: "root/a", NewNode: file("a", "h", 1)},
			wantErr: ErrUnknownChangeType,
		},
		{
			name:    "root only path",
			change:  models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root", NewNode: file("root", "h", 1)},
			wantErr: ErrEmptyPath,
		},
		{
			name:    "empty path",
			change:  models.ChangeRecord{ChangeType: models.ChangeRemoved, Path: "", OldNode: file("a", "h", 1)},
			wantErr: ErrEmptyPath,
		},
		{
			name:    "added without new node",
			change:  models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root/a"},
			wantErr: ErrMissingNewNode,
		},
		{
			name:    "removed without old node",
			change:  models.ChangeRecord{ChangeType: models.ChangeRemoved, Path: "root/a", NewNode: file("a", "h", 1)},
			wantErr: ErrMissingOldNode,
		},
		{
			name:    "modified without new node",
			change:  models.ChangeRecord{ChangeType: models.ChangeModified, Path: "root/a", OldNode: file("a", "h", 1)},
			wantErr: ErrMissingNewNode,
		},
		{
			name:    "typed nil node",
			change:  models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root/a", NewNode: (*models.File)(nil)},
			wantErr: ErrMissingNewNode,
		},
		{
			name:    "name mismatch",
			change:  models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root/docs/b.txt", NewNode: file("c.txt", "h", 1)},
			wantErr: ErrPathNameMismatch,
		},
		{
			name:    "negative size",
			change:  models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root/a", NewNode: file("a", "h", -1)},
			wantErr: ErrNegativeSize,
		},
		{
			name: "duplicate siblings in added subtree",
			change: models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root/dir", NewNode: models.NewFolder("dir", "",
				file("x", "h", 1), models.NewFolder("x", ""),
			)},
			wantErr: ErrDuplicateSiblingName,
		},
		{
			name: "empty name deep in subtree",
			change: models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root/dir", NewNode: models.NewFolder("dir", "",
				models.NewFolder("sub", "", file("", "h", 1)),
			)},
			wantErr: ErrEmptyNodeName,
		},
		{
			name:   "type change in modified is allowed",
			change: models.ChangeRecord{ChangeType: models.ChangeModified, Path: "root/x", OldNode: file("x", "h", 1), NewNode: models.NewFolder("x", "")},
		},
		{
			name:   "path without root prefix",
			change: models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "docs/b.txt", NewNode: file("b.txt", "h", 1)},
		},
	}

	v := NewTreeValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.change)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ChangeSetReportsRecord(t *testing.T) {
	cs := models.NewChangeSet(testTime, []models.ChangeRecord{
		{ChangeType: models.ChangeAdded, Path: "root/a", NewNode: file("a", "h", 1)},
		{ChangeType: models.ChangeAdded, Path: "root/b", NewNode: file("c", "h", 1)},
	})

	err := NewTreeValidator().Validate(context.Background(), cs)
	require.ErrorIs(t, err, ErrPathNameMismatch)
	assert.Contains(t, err.Error(), `change #1 ("root/b")`)
}

func TestValidate_Tree(t *testing.T) {
	v := NewTreeValidator()
	ctx := context.Background()

	valid := models.NewFolder("root", "r",
		models.NewFolder("docs", "d", file("a.txt", "h1", 10)),
		file("readme.md", "h2", 3),
	)
	assert.NoError(t, v.Validate(ctx, valid))

	assert.ErrorIs(t, v.Validate(ctx, (*models.Folder)(nil)), ErrNilTree)

	dup := models.NewFolder("root", "", file("a", "h", 1), file("a", "h", 1))
	assert.ErrorIs(t, v.Validate(ctx, dup), ErrDuplicateSiblingName)

	slash := models.NewFolder("root", "", models.NewFolder("a/b", ""))
	assert.ErrorIs(t, v.Validate(ctx, slash), ErrInvalidNodeName)

	nilChild := &models.Folder{Name: "root", Children: []models.Node{(*models.File)(nil)}}
	assert.ErrorIs(t, v.Validate(ctx, nilChild), ErrNilNode)
}
