// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// newSQLiteTreeService wires the tree service to a migrated SQLite file.
func newSQLiteTreeService(t *testing.T) (TreeService, *store.Storages) {
	t.Helper()

	log := logger.Nop()
	ctx := log.WithContext(context.Background())

	db, err := store.NewConnectSQLite(ctx, config.ClientDB{DSN: filepath.Join(t.TempDir(), "tree.db")}, log)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	storages := store.NewStoragesFromDB(db, log)
	t.Cleanup(func() { storages.Close() })

	reconciler := NewReconcileService(storages.Folders, storages.Files, log)
	svc := NewTreeService(storages.Transactor, storages.Snapshots, storages.Folders, storages.Files, reconciler, log)

	return svc, storages
}

// Folder rows carry no hash, so these trees leave folder hashes empty.
func sqliteTreeV1() *models.Folder {
	return models.NewFolder("root", "",
		models.NewFolder("docs", "",
			models.NewFile("a.txt", "h1", 10, testTime),
			models.NewFolder("old", "", models.NewFile("deep.txt", "d", 1, testTime)),
		),
		models.NewFile("old.txt", "o", 3, testTime),
	)
}

func sqliteTreeV2() *models.Folder {
	return models.NewFolder("root", "",
		models.NewFolder("docs", "",
			models.NewFile("a.txt", "h1v2", 12, testTime),
			models.NewFile("b.txt", "h2", 20, testTime),
		),
		models.NewFile("top.md", "t", 1, testTime),
	)
}

func TestTreeServiceSQLite_SetupReplacesRows(t *testing.T) {
	svc, _ := newSQLiteTreeService(t)
	ctx := logger.Nop().WithContext(context.Background())

	require.NoError(t, svc.Setup(ctx, sqliteTreeV1()))
	require.NoError(t, svc.Setup(ctx, sqliteTreeV2()))

	got, err := svc.StoreStructure(ctx)
	require.NoError(t, err)
	assert.True(t, tree.Equal(sqliteTreeV2(), got), "store keeps rows of the previous tree")

	require.NoError(t, svc.Setup(ctx, models.NewFolder("root", "")))

	got, err = svc.StoreStructure(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Children)
}

func TestTreeServiceSQLite_ApplyDiffMatchesTarget(t *testing.T) {
	svc, storages := newSQLiteTreeService(t)
	ctx := logger.Nop().WithContext(context.Background())

	require.NoError(t, svc.Setup(ctx, sqliteTreeV1()))

	old, err := storages.Folders.FindFolder(ctx, models.FolderFilter{Name: "old", ParentID: docsID(t, ctx, storages)})
	require.NoError(t, err)

	cs := tree.Diff(sqliteTreeV1(), sqliteTreeV2(), testTime)
	patched, err := svc.ApplyChangeSet(ctx, cs)
	require.NoError(t, err)
	assert.True(t, tree.Equal(sqliteTreeV2(), patched))

	got, err := svc.StoreStructure(ctx)
	require.NoError(t, err)
	assert.True(t, tree.Equal(sqliteTreeV2(), got), "store differs from the patched snapshot")

	orphans, err := storages.Files.FindFiles(ctx, models.FileFilter{FolderID: &old.ID})
	require.NoError(t, err)
	assert.Empty(t, orphans)

	rootFiles, err := storages.Files.FindFiles(ctx, models.FileFilter{})
	require.NoError(t, err)
	require.Len(t, rootFiles, 1)
	assert.Equal(t, "top.md", rootFiles[0].Name)
	assert.Nil(t, rootFiles[0].FolderID)
}

func TestTreeServiceSQLite_UniqueSiblings(t *testing.T) {
	_, storages := newSQLiteTreeService(t)
	ctx := logger.Nop().WithContext(context.Background())

	_, err := storages.Folders.CreateFolder(ctx, models.FolderRecord{Name: "docs"})
	require.NoError(t, err)

	_, err = storages.Folders.CreateFolder(ctx, models.FolderRecord{Name: "docs"})
	assert.ErrorIs(t, err, store.ErrStoreConflict)

	_, err = storages.Files.CreateFile(ctx, models.FileRecord{Name: "a.txt", LastModified: testTime})
	require.NoError(t, err)

	_, err = storages.Files.CreateFile(ctx, models.FileRecord{Name: "a.txt", LastModified: testTime})
	assert.ErrorIs(t, err, store.ErrStoreConflict)
}

func docsID(t *testing.T, ctx context.Context, storages *store.Storages) *int64 {
	t.Helper()

	docs, err := storages.Folders.FindFolder(ctx, models.FolderFilter{Name: "docs"})
	require.NoError(t, err)

	return &docs.ID
}
