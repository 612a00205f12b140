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

// fileRepository is the SQL-backed implementation of [FileRepository]
// over the "files" table.
type fileRepository struct {
	*DB
	logger *logger.Logger
}

// NewFileRepository constructs a [FileRepository] backed by db.
func NewFileRepository(db *DB, logger *logger.Logger) FileRepository {
	logger.Debug().Msg("creating file repository")
	return &fileRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *fileRepository) FindFile(ctx context.Context, filter models.FileFilter) (models.FileRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.selectFiles(filter, 1)
	if err != nil {
		log.Err(err).Str("func", "fileRepository.FindFile").Msg("failed to create query")
		return models.FileRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	file, err := scanFile(r.conn(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.FileRecord{}, ErrFileNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "fileRepository.FindFile").
			Str("name", filter.Name).
			Any("folder_id", filter.FolderID).
			Msg("failed to find file")
		return models.FileRecord{}, r.mapError(ErrExecutingQuery, err)
	}

	return file, nil
}

func (r *fileRepository) FindFiles(ctx context.Context, filter models.FileFilter) ([]models.FileRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.selectFiles(filter, 0)
	if err != nil {
		log.Err(err).Str("func", "fileRepository.FindFiles").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryFiles(ctx, "fileRepository.FindFiles", query, args)
}

func (r *fileRepository) AllFiles(ctx context.Context) ([]models.FileRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.selectAllFiles()
	if err != nil {
		log.Err(err).Str("func", "fileRepository.AllFiles").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryFiles(ctx, "fileRepository.AllFiles", query, args)
}

// CreateFile inserts file and returns it with the assigned id.
func (r *fileRepository) CreateFile(ctx context.Context, file models.FileRecord) (models.FileRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.insertFile(file)
	if err != nil {
		log.Err(err).Str("func", "fileRepository.CreateFile").Msg("failed to create query")
		return models.FileRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&file.ID); err != nil {
		log.Err(err).
			Str("func", "fileRepository.CreateFile").
			Str("name", file.Name).
			Any("folder_id", file.FolderID).
			Bool("retryable", r.errorClassificator.Classify(err) == Retryable).
			Msg("failed to insert file")
		return models.FileRecord{}, r.mapError(ErrExecutingStatement, err)
	}

	return file, nil
}

// UpdateFile overwrites every column of the row with file.ID.
func (r *fileRepository) UpdateFile(ctx context.Context, file models.FileRecord) (models.FileRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.updateFile(file)
	if err != nil {
		log.Err(err).Str("func", "fileRepository.UpdateFile").Msg("failed to create query")
		return models.FileRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "fileRepository.UpdateFile").Int64("file_id", file.ID).Msg("failed to update file")
		return models.FileRecord{}, r.mapError(ErrExecutingStatement, err)
	}

	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return models.FileRecord{}, ErrFileNotFound
	}

	return file, nil
}

func (r *fileRepository) DeleteFile(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.deleteFileByID(id)
	if err != nil {
		log.Err(err).Str("func", "fileRepository.DeleteFile").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "fileRepository.DeleteFile").Int64("file_id", id).Msg("failed to delete file")
		return r.mapError(ErrExecutingStatement, err)
	}

	return nil
}

func (r *fileRepository) DeleteFiles(ctx context.Context, filter models.FileFilter) error {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.deleteFiles(filter)
	if err != nil {
		log.Err(err).Str("func", "fileRepository.DeleteFiles").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "fileRepository.DeleteFiles").Any("folder_id", filter.FolderID).Msg("failed to delete files")
		return r.mapError(ErrExecutingStatement, err)
	}

	return nil
}

func (r *fileRepository) DeleteAllFiles(ctx context.Context) error {
	log := logger.FromContext(ctx)

	query, args, err := r.queries.deleteAllFiles()
	if err != nil {
		log.Err(err).Str("func", "fileRepository.DeleteAllFiles").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "fileRepository.DeleteAllFiles").Msg("failed to delete all files")
		return r.mapError(ErrExecutingStatement, err)
	}

	return nil
}

func (r *fileRepository) queryFiles(ctx context.Context, fn, query string, args []any) ([]models.FileRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute query for files")
		return nil, r.mapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	files := make([]models.FileRecord, 0, 32)
	for rows.Next() {
		file, scanErr := scanFile(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", fn).Msg("failed to scan file row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		files = append(files, file)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return files, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (models.FileRecord, error) {
	var file models.FileRecord
	var folderID sql.NullInt64

	if err := row.Scan(&file.ID, &file.Name, &folderID, &file.ContentHash, &file.Size, &file.LastModified); err != nil {
		return models.FileRecord{}, err
	}
	file.FolderID = scanNullableID(folderID)

	return file, nil
}
