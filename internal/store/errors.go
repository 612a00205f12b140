// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrFolderNotFound is returned when no folder row matches a filter.
	ErrFolderNotFound = errors.New("folder was not found")

	// ErrFileNotFound is returned when no file row matches a filter.
	ErrFileNotFound = errors.New("file was not found")

	// ErrSnapshotNotFound is returned when no snapshot blob is stored under
	// the requested name.
	ErrSnapshotNotFound = errors.New("snapshot was not found")

	// ErrStoreConflict is returned when a write violates a uniqueness
	// constraint, typically a lost lookup-then-create race on a sibling name.
	ErrStoreConflict = errors.New("store uniqueness conflict")

	// ErrStoreUnavailable is returned for connectivity failures of the
	// underlying database.
	ErrStoreUnavailable = errors.New("store is unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
