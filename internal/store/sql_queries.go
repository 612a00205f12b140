// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-tree-mirror/models"
)

const (
	foldersTable   = "folders"
	filesTable     = "files"
	snapshotsTable = "tree_snapshots"
)

var (
	folderColumns   = []string{"id", "name", "parent_id"}
	fileColumns     = []string{"id", "name", "folder_id", "content_hash", "size", "last_modified"}
	snapshotColumns = []string{"name", "content", "updated_at"}
)

// queryBuilder renders every statement the repositories issue, using the
// placeholder format of one dialect.
type queryBuilder struct {
	sb sq.StatementBuilderType
}

func newQueryBuilder(dialect Dialect) queryBuilder {
	return queryBuilder{sb: builderFor(dialect)}
}

func folderWhere(filter models.FolderFilter) sq.And {
	where := sq.And{sq.Eq{"parent_id": nullableID(filter.ParentID)}}
	if filter.Name != "" {
		where = append(where, sq.Eq{"name": filter.Name})
	}
	return where
}

func fileWhere(filter models.FileFilter) sq.And {
	where := sq.And{sq.Eq{"folder_id": nullableID(filter.FolderID)}}
	if filter.Name != "" {
		where = append(where, sq.Eq{"name": filter.Name})
	}
	return where
}

// selectFolders renders a filtered select; limit 0 means unlimited.
func (q queryBuilder) selectFolders(filter models.FolderFilter, limit uint64) (string, []any, error) {
	query := q.sb.Select(folderColumns...).
		From(foldersTable).
		Where(folderWhere(filter)).
		OrderBy("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	return query.ToSql()
}

func (q queryBuilder) selectAllFolders() (string, []any, error) {
	return q.sb.Select(folderColumns...).
		From(foldersTable).
		OrderBy("id").
		ToSql()
}

func (q queryBuilder) insertFolder(folder models.FolderRecord) (string, []any, error) {
	return q.sb.Insert(foldersTable).
		Columns("name", "parent_id").
		Values(folder.Name, nullableID(folder.ParentID)).
		Suffix("RETURNING id").
		ToSql()
}

func (q queryBuilder) updateFolder(folder models.FolderRecord) (string, []any, error) {
	return q.sb.Update(foldersTable).
		Set("name", folder.Name).
		Set("parent_id", nullableID(folder.ParentID)).
		Where(sq.Eq{"id": folder.ID}).
		ToSql()
}

func (q queryBuilder) deleteFolderByID(id int64) (string, []any, error) {
	return q.sb.Delete(foldersTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (q queryBuilder) deleteFolders(filter models.FolderFilter) (string, []any, error) {
	return q.sb.Delete(foldersTable).
		Where(folderWhere(filter)).
		ToSql()
}

func (q queryBuilder) deleteAllFolders() (string, []any, error) {
	return q.sb.Delete(foldersTable).ToSql()
}

// selectFiles renders a filtered select; limit 0 means unlimited.
func (q queryBuilder) selectFiles(filter models.FileFilter, limit uint64) (string, []any, error) {
	query := q.sb.Select(fileColumns...).
		From(filesTable).
		Where(fileWhere(filter)).
		OrderBy("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	return query.ToSql()
}

func (q queryBuilder) selectAllFiles() (string, []any, error) {
	return q.sb.Select(fileColumns...).
		From(filesTable).
		OrderBy("id").
		ToSql()
}

func (q queryBuilder) insertFile(file models.FileRecord) (string, []any, error) {
	return q.sb.Insert(filesTable).
		Columns("name", "folder_id", "content_hash", "size", "last_modified").
		Values(file.Name, nullableID(file.FolderID), file.ContentHash, file.Size, file.LastModified.UTC()).
		Suffix("RETURNING id").
		ToSql()
}

func (q queryBuilder) updateFile(file models.FileRecord) (string, []any, error) {
	return q.sb.Update(filesTable).
		Set("name", file.Name).
		Set("folder_id", nullableID(file.FolderID)).
		Set("content_hash", file.ContentHash).
		Set("size", file.Size).
		Set("last_modified", file.LastModified.UTC()).
		Where(sq.Eq{"id": file.ID}).
		ToSql()
}

func (q queryBuilder) deleteFileByID(id int64) (string, []any, error) {
	return q.sb.Delete(filesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (q queryBuilder) deleteFiles(filter models.FileFilter) (string, []any, error) {
	return q.sb.Delete(filesTable).
		Where(fileWhere(filter)).
		ToSql()
}

func (q queryBuilder) deleteAllFiles() (string, []any, error) {
	return q.sb.Delete(filesTable).ToSql()
}

func (q queryBuilder) selectSnapshot(name string) (string, []any, error) {
	return q.sb.Select(snapshotColumns...).
		From(snapshotsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
}

// upsertSnapshot relies on INSERT ... ON CONFLICT, understood by both
// PostgreSQL and SQLite.
func (q queryBuilder) upsertSnapshot(snapshot models.Snapshot, now time.Time) (string, []any, error) {
	return q.sb.Insert(snapshotsTable).
		Columns(snapshotColumns...).
		Values(snapshot.Name, string(snapshot.Content), now.UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at").
		ToSql()
}
