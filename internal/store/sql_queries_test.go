// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/models"
)

func TestQueryBuilder_SelectFolders(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		filter   models.FolderFilter
		limit    uint64
		contains []string
		args     []any
	}{
		{
			name:     "top level by name postgres",
			dialect:  DialectPostgres,
			filter:   models.FolderFilter{Name: "docs"},
			limit:    1,
			contains: []string{"FROM folders", "parent_id IS NULL", "name = $1", "LIMIT 1"},
			args:     []any{"docs"},
		},
		{
			name:     "children of parent sqlite",
			dialect:  DialectSQLite,
			filter:   models.FolderFilter{ParentID: int64Ptr(7)},
			contains: []string{"FROM folders", "parent_id = ?", "ORDER BY id"},
			args:     []any{int64(7)},
		},
		{
			name:     "named child of parent postgres",
			dialect:  DialectPostgres,
			filter:   models.FolderFilter{Name: "src", ParentID: int64Ptr(3)},
			contains: []string{"parent_id = $1", "name = $2"},
			args:     []any{int64(3), "src"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := newQueryBuilder(tt.dialect).selectFolders(tt.filter, tt.limit)
			require.NoError(t, err)
			for _, fragment := range tt.contains {
				assert.Contains(t, query, fragment)
			}
			assert.Equal(t, tt.args, args)
			if tt.limit == 0 {
				assert.NotContains(t, query, "LIMIT")
			}
		})
	}
}

func TestQueryBuilder_InsertFolder(t *testing.T) {
	query, args, err := newQueryBuilder(DialectPostgres).insertFolder(models.FolderRecord{Name: "docs"})
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO folders")
	assert.Contains(t, query, "RETURNING id")
	require.Len(t, args, 2)
	assert.Equal(t, "docs", args[0])
	assert.Nil(t, args[1])
}

func TestQueryBuilder_Files(t *testing.T) {
	qb := newQueryBuilder(DialectPostgres)
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	query, args, err := qb.insertFile(models.FileRecord{
		Name:         "a.txt",
		FolderID:     int64Ptr(1),
		ContentHash:  "h1",
		Size:         10,
		LastModified: modified,
	})
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO files")
	assert.Contains(t, query, "RETURNING id")
	require.Len(t, args, 5)
	assert.Equal(t, "a.txt", args[0])
	assert.Equal(t, int64(1), args[1])
	assert.Equal(t, time.UTC, args[4].(time.Time).Location())

	query, args, err = qb.updateFile(models.FileRecord{ID: 9, Name: "a.txt", ContentHash: "h2", Size: 15, LastModified: modified})
	require.NoError(t, err)
	assert.Contains(t, query, "UPDATE files SET")
	assert.Contains(t, query, "WHERE id = $6")
	assert.Equal(t, int64(9), args[5])

	query, args, err = qb.deleteFiles(models.FileFilter{FolderID: int64Ptr(4)})
	require.NoError(t, err)
	assert.Contains(t, query, "DELETE FROM files")
	assert.Contains(t, query, "folder_id = $1")
	assert.Equal(t, []any{int64(4)}, args)

	query, args, err = qb.deleteAllFiles()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM files", query)
	assert.Empty(t, args)
}

func TestQueryBuilder_UpsertSnapshot(t *testing.T) {
	now := time.Now()
	for _, dialect := range []Dialect{DialectPostgres, DialectSQLite} {
		query, args, err := newQueryBuilder(dialect).upsertSnapshot(models.Snapshot{
			Name:    models.SetupTreeSnapshot,
			Content: []byte(`{"name":"root"}`),
		}, now)
		require.NoError(t, err)

		assert.Contains(t, query, "INSERT INTO tree_snapshots")
		assert.Contains(t, query, "ON CONFLICT (name) DO UPDATE")
		require.Len(t, args, 3)
		assert.Equal(t, models.SetupTreeSnapshot, args[0])
		assert.Equal(t, `{"name":"root"}`, args[1])
	}
}
