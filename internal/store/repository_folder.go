// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// folderRepository is the SQL-backed implementation of [FolderRepository]
// over the "folders" table.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] and runs on the transaction carried by ctx, if any.
type folderRepository struct {
	*DB
	logger *logger.Logger
}

// NewFolderRepository constructs a [FolderRepository] backed by db.
func NewFolderRepository(db *DB, logger *logger.Logger) FolderRepository {
	logger.Debug().Msg("creating folder repository")
	return &folderRepository{
		DB:     db,
		logger: logger,
	}
}

// FindFolder returns the folder named filter.Name directly under
// filter.ParentID. [ErrFolderNotFound] is returned when there is none.
func (r *folderRepository) FindFolder(ctx context.Context, filter models.FolderFilter) (models.FolderRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.selectFolders(filter, 1)
	if err != nil {
		log.Err(err).Str("func", "folderRepository.FindFolder").Msg("failed to create query")
		return models.FolderRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var folder models.FolderRecord
	var parentID sql.NullInt64
	err = r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&folder.ID, &folder.Name, &parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FolderRecord{}, ErrFolderNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "folderRepository.FindFolder").
			Str("name", filter.Name).
			Any("parent_id", filter.ParentID).
			Msg("failed to find folder")
		return models.FolderRecord{}, r.mapError(ErrExecutingQuery, err)
	}
	folder.ParentID = scanNullableID(parentID)

	return folder, nil
}

// FindFolders returns every folder matching filter, ordered by id.
func (r *folderRepository) FindFolders(ctx context.Context, filter models.FolderFilter) ([]models.FolderRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.selectFolders(filter, 0)
	if err != nil {
		log.Err(err).Str("func", "folderRepository.FindFolders").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryFolders(ctx, "folderRepository.FindFolders", query, args)
}

// AllFolders returns every folder row ordered by id.
func (r *folderRepository) AllFolders(ctx context.Context) ([]models.FolderRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.selectAllFolders()
	if err != nil {
		log.Err(err).Str("func", "folderRepository.AllFolders").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryFolders(ctx, "folderRepository.AllFolders", query, args)
}

// CreateFolder inserts folder and returns it with the assigned id. A sibling
// with the same name yields [ErrStoreConflict].
func (r *folderRepository) CreateFolder(ctx context.Context, folder models.FolderRecord) (models.FolderRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.insertFolder(folder)
	if err != nil {
		log.Err(err).Str("func", "folderRepository.CreateFolder").Msg("failed to create query")
		return models.FolderRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&folder.ID); err != nil {
		log.Err(err).
			Str("func", "folderRepository.CreateFolder").
			Str("name", folder.Name).
			Any("parent_id", folder.ParentID).
			Bool("retryable", r.errorClassificator.Classify(err) == Retryable).
			Msg("failed to insert folder")
		return models.FolderRecord{}, r.mapError(ErrExecutingStatement, err)
	}

	return folder, nil
}

// UpdateFolder renames or moves a folder. [ErrFolderNotFound] is returned
// when no row has folder.ID.
func (r *folderRepository) UpdateFolder(ctx context.Context, folder models.FolderRecord) (models.FolderRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.updateFolder(folder)
	if err != nil {
		log.Err(err).Str("func", "folderRepository.UpdateFolder").Msg("failed to create query")
		return models.FolderRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "folderRepository.UpdateFolder").Int64("folder_id", folder.ID).Msg("failed to update folder")
		return models.FolderRecord{}, r.mapError(ErrExecutingStatement, err)
	}

	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return models.FolderRecord{}, ErrFolderNotFound
	}

	return folder, nil
}

// DeleteFolder removes the folder row with id. Deleting a missing row is not
// an error.
func (r *folderRepository) DeleteFolder(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.deleteFolderByID(id)
	if err != nil {
		log.Err(err).Str("func", "folderRepository.DeleteFolder").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "folderRepository.DeleteFolder").Int64("folder_id", id).Msg("failed to delete folder")
		return r.mapError(ErrExecutingStatement, err)
	}

	return nil
}

// DeleteFolders removes every folder matching filter.
func (r *folderRepository) DeleteFolders(ctx context.Context, filter models.FolderFilter) error {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.deleteFolders(filter)
	if err != nil {
		log.Err(err).Str("func", "folderRepository.DeleteFolders").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "folderRepository.DeleteFolders").Any("parent_id", filter.ParentID).Msg("failed to delete folders")
		return r.mapError(ErrExecutingStatement, err)
	}

	return nil
}

// DeleteAllFolders empties the table.
func (r *folderRepository) DeleteAllFolders(ctx context.Context) error {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.deleteAllFolders()
	if err != nil {
		log.Err(err).Str("func", "folderRepository.DeleteAllFolders").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "folderRepository.DeleteAllFolders").Msg("failed to delete all folders")
		return r.mapError(ErrExecutingStatement, err)
	}

	return nil
}

func (r *folderRepository) queryFolders(ctx context.Context, fn, query string, args []any) ([]models.FolderRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute query for folders")
		return nil, r.mapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	folders := make([]models.FolderRecord, 0, 16)
	for rows.Next() {
		var folder models.FolderRecord
		var parentID sql.NullInt64

		if err = rows.Scan(&folder.ID, &folder.Name, &parentID); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to scan folder row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		folder.ParentID = scanNullableID(parentID)

		folders = append(folders, folder)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return folders, nil
}
