// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/mock"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/models"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func newTestReconciler(t *testing.T) (*reconcileService, *mock.MockFolderRepository, *mock.MockFileRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	folders := mock.NewMockFolderRepository(ctrl)
	files := mock.NewMockFileRepository(ctrl)

	svc := NewReconcileService(folders, files, logger.Nop()).(*reconcileService)
	svc.now = func() time.Time { return testTime }

	return svc, folders, files
}

func TestReconcile_AddedFileIntoExistingFolder(t *testing.T) {
	svc, folders, files := newTestReconciler(t)
	ctx := context.Background()

	gomock.InOrder(
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "docs"}).
			Return(models.FolderRecord{ID: 1, Name: "docs"}, nil),
		files.EXPECT().FindFile(ctx, models.FileFilter{Name: "a.txt", FolderID: int64Ptr(1)}).
			Return(models.FileRecord{}, store.ErrFileNotFound),
		files.EXPECT().CreateFile(ctx, models.FileRecord{
			Name: "a.txt", FolderID: int64Ptr(1), ContentHash: "h1", Size: 3, LastModified: testTime,
		}).Return(models.FileRecord{ID: 10}, nil),
	)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeAdded,
		Path:       "root/docs/a.txt",
		NewNode:    models.NewFile("a.txt", "h1", 3, testTime),
	}})
	require.NoError(t, err)
}

func TestReconcile_AddedFolderCreatesWholeSubtree(t *testing.T) {
	svc, folders, files := newTestReconciler(t)
	ctx := context.Background()

	gomock.InOrder(
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "photos"}).
			Return(models.FolderRecord{}, store.ErrFolderNotFound),
		folders.EXPECT().CreateFolder(ctx, models.FolderRecord{Name: "photos"}).
			Return(models.FolderRecord{ID: 5, Name: "photos"}, nil),
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "trip", ParentID: int64Ptr(5)}).
			Return(models.FolderRecord{}, store.ErrFolderNotFound),
		folders.EXPECT().CreateFolder(ctx, models.FolderRecord{Name: "trip", ParentID: int64Ptr(5)}).
			Return(models.FolderRecord{ID: 6, Name: "trip", ParentID: int64Ptr(5)}, nil),
		files.EXPECT().FindFile(ctx, models.FileFilter{Name: "img.jpg", FolderID: int64Ptr(6)}).
			Return(models.FileRecord{}, store.ErrFileNotFound),
		files.EXPECT().CreateFile(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, f models.FileRecord) (models.FileRecord, error) {
				assert.Equal(t, "img.jpg", f.Name)
				assert.Equal(t, int64Ptr(6), f.FolderID)
				// no size or mtime on the wire
				assert.Equal(t, int64(0), f.Size)
				assert.Equal(t, testTime, f.LastModified)
				return f, nil
			}),
	)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeAdded,
		Path:       "root/photos",
		NewNode: models.NewFolder("photos", "p",
			models.NewFolder("trip", "t", &models.File{Name: "img.jpg", ContentHash: "i"})),
	}})
	require.NoError(t, err)
}

func TestReconcile_AddedExistingFileIsOverwritten(t *testing.T) {
	svc, _, files := newTestReconciler(t)
	ctx := context.Background()

	files.EXPECT().FindFile(ctx, models.FileFilter{Name: "a.txt"}).
		Return(models.FileRecord{ID: 3, Name: "a.txt", ContentHash: "old"}, nil)
	files.EXPECT().UpdateFile(ctx, models.FileRecord{
		ID: 3, Name: "a.txt", ContentHash: "new", Size: 1, LastModified: testTime,
	}).Return(models.FileRecord{}, nil)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeAdded,
		Path:       "root/a.txt",
		NewNode:    models.NewFile("a.txt", "new", 1, testTime),
	}})
	require.NoError(t, err)
}

func TestReconcile_RemovedWithMissingAncestorIsNoOp(t *testing.T) {
	svc, folders, _ := newTestReconciler(t)
	ctx := context.Background()

	folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "ghost"}).
		Return(models.FolderRecord{}, store.ErrFolderNotFound)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeRemoved,
		Path:       "root/ghost/a.txt",
		OldNode:    models.NewFile("a.txt", "h", 1, testTime),
	}})
	require.NoError(t, err)
}

func TestReconcile_RemovedFile(t *testing.T) {
	svc, folders, files := newTestReconciler(t)
	ctx := context.Background()

	gomock.InOrder(
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "docs"}).
			Return(models.FolderRecord{ID: 1}, nil),
		files.EXPECT().FindFile(ctx, models.FileFilter{Name: "a.txt", FolderID: int64Ptr(1)}).
			Return(models.FileRecord{ID: 9}, nil),
		files.EXPECT().DeleteFile(ctx, int64(9)).Return(nil),
	)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeRemoved,
		Path:       "root/docs/a.txt",
		OldNode:    models.NewFile("a.txt", "h", 1, testTime),
	}})
	require.NoError(t, err)
}

func TestReconcile_RemovedFolderDeletesDescendantsFirst(t *testing.T) {
	svc, folders, files := newTestReconciler(t)
	ctx := context.Background()

	gomock.InOrder(
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "docs"}).
			Return(models.FolderRecord{ID: 1}, nil),
		folders.EXPECT().FindFolders(ctx, models.FolderFilter{ParentID: int64Ptr(1)}).
			Return([]models.FolderRecord{{ID: 2}}, nil),
		folders.EXPECT().FindFolders(ctx, models.FolderFilter{ParentID: int64Ptr(2)}).
			Return(nil, nil),
		files.EXPECT().DeleteFiles(ctx, models.FileFilter{FolderID: int64Ptr(1)}).Return(nil),
		files.EXPECT().DeleteFiles(ctx, models.FileFilter{FolderID: int64Ptr(2)}).Return(nil),
		folders.EXPECT().DeleteFolder(ctx, int64(2)).Return(nil),
		folders.EXPECT().DeleteFolder(ctx, int64(1)).Return(nil),
	)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeRemoved,
		Path:       "root/docs",
		OldNode:    models.NewFolder("docs", "d"),
	}})
	require.NoError(t, err)
}

func TestReconcile_ModifiedFile(t *testing.T) {
	svc, folders, files := newTestReconciler(t)
	ctx := context.Background()

	mtime := testTime.Add(time.Hour)
	gomock.InOrder(
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "docs"}).
			Return(models.FolderRecord{ID: 1}, nil),
		files.EXPECT().FindFile(ctx, models.FileFilter{Name: "a.txt", FolderID: int64Ptr(1)}).
			Return(models.FileRecord{ID: 4, Name: "a.txt", FolderID: int64Ptr(1), ContentHash: "old", Size: 1, LastModified: testTime}, nil),
		files.EXPECT().UpdateFile(ctx, models.FileRecord{
			ID: 4, Name: "a.txt", FolderID: int64Ptr(1), ContentHash: "new", Size: 20, LastModified: mtime,
		}).Return(models.FileRecord{}, nil),
	)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeModified,
		Path:       "root/docs/a.txt",
		OldNode:    models.NewFile("a.txt", "old", 1, testTime),
		NewNode:    models.NewFile("a.txt", "new", 20, mtime),
	}})
	require.NoError(t, err)
}

func TestReconcile_ModifiedMissingFileIsNoOp(t *testing.T) {
	svc, _, files := newTestReconciler(t)
	ctx := context.Background()

	files.EXPECT().FindFile(ctx, models.FileFilter{Name: "a.txt"}).
		Return(models.FileRecord{}, store.ErrFileNotFound)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeModified,
		Path:       "root/a.txt",
		NewNode:    &models.File{Name: "a.txt", ContentHash: "new"},
	}})
	require.NoError(t, err)
}

func TestReconcile_NoStoreCalls(t *testing.T) {
	tests := []struct {
		name   string
		change models.ChangeRecord
	}{
		{
			name: "modified folder",
			change: models.ChangeRecord{
				ChangeType: models.ChangeModified, Path: "root/docs",
				OldNode: models.NewFolder("docs", "a"), NewNode: models.NewFolder("docs", "b"),
			},
		},
		{
			name: "unchanged",
			change: models.ChangeRecord{
				ChangeType: models.ChangeUnchanged, Path: "root/a.txt",
				OldNode: models.NewFile("a.txt", "h", 1, testTime), NewNode: models.NewFile("a.txt", "h", 1, testTime),
			},
		},
		{
			name:   "root path",
			change: models.ChangeRecord{ChangeType: models.ChangeAdded, Path: "root", NewNode: models.NewFolder("root", "")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestReconciler(t)
			require.NoError(t, svc.Reconcile(context.Background(), []models.ChangeRecord{tt.change}))
		})
	}
}

func TestReconcile_StoreErrorNamesPath(t *testing.T) {
	svc, folders, _ := newTestReconciler(t)
	ctx := context.Background()

	folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "docs"}).
		Return(models.FolderRecord{}, store.ErrFolderNotFound)
	folders.EXPECT().CreateFolder(ctx, models.FolderRecord{Name: "docs"}).
		Return(models.FolderRecord{}, store.ErrStoreConflict)

	err := svc.Reconcile(ctx, []models.ChangeRecord{{
		ChangeType: models.ChangeAdded,
		Path:       "root/docs",
		NewNode:    models.NewFolder("docs", "d"),
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReconcileFailed))
	assert.True(t, errors.Is(err, store.ErrStoreConflict))
	assert.Contains(t, err.Error(), `"root/docs"`)
}

func TestReconcile_MissingNodeIsMalformed(t *testing.T) {
	svc, _, _ := newTestReconciler(t)

	err := svc.Reconcile(context.Background(), []models.ChangeRecord{{ChangeType: models.ChangeAdded, Path: "root/a.txt"}})
	assert.ErrorIs(t, err, ErrMalformedChange)
}

func TestResolveOrCreateFolderPath(t *testing.T) {
	svc, folders, _ := newTestReconciler(t)
	ctx := context.Background()

	gomock.InOrder(
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "a"}).
			Return(models.FolderRecord{ID: 1}, nil),
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "b", ParentID: int64Ptr(1)}).
			Return(models.FolderRecord{}, store.ErrFolderNotFound),
		folders.EXPECT().CreateFolder(ctx, models.FolderRecord{Name: "b", ParentID: int64Ptr(1)}).
			Return(models.FolderRecord{ID: 2}, nil),
	)

	id, err := svc.ResolveOrCreateFolderPath(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, int64Ptr(2), id)

	id, err = svc.ResolveOrCreateFolderPath(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestImport_SkipsUnchangedFiles(t *testing.T) {
	svc, folders, files := newTestReconciler(t)
	ctx := context.Background()

	gomock.InOrder(
		files.EXPECT().FindFile(ctx, models.FileFilter{Name: "same.txt"}).
			Return(models.FileRecord{ID: 1, ContentHash: "s", Size: 2}, nil),
		folders.EXPECT().FindFolder(ctx, models.FolderFilter{Name: "docs"}).
			Return(models.FolderRecord{ID: 7}, nil),
		files.EXPECT().FindFile(ctx, models.FileFilter{Name: "b.txt", FolderID: int64Ptr(7)}).
			Return(models.FileRecord{ID: 2, ContentHash: "old", Size: 2}, nil),
		files.EXPECT().UpdateFile(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, f models.FileRecord) (models.FileRecord, error) {
				assert.Equal(t, int64(2), f.ID)
				assert.Equal(t, "new", f.ContentHash)
				return f, nil
			}),
	)

	root := models.NewFolder("root", "r",
		models.NewFile("same.txt", "s", 2, testTime),
		models.NewFolder("docs", "d", models.NewFile("b.txt", "new", 2, testTime)),
	)
	require.NoError(t, svc.Import(ctx, root))
}

func TestImport_WrapsErrors(t *testing.T) {
	svc, folders, _ := newTestReconciler(t)
	ctx := context.Background()

	folders.EXPECT().FindFolder(ctx, gomock.Any()).Return(models.FolderRecord{}, store.ErrStoreUnavailable)

	err := svc.Import(ctx, models.NewFolder("root", "", models.NewFolder("docs", "")))
	assert.ErrorIs(t, err, ErrReconcileFailed)
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}
