// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/migrations"
)

// Dialect names the SQL flavour behind a [DB].
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DB wraps a *sql.DB with the dialect-specific query builder and error
// classifier. Repositories never use the embedded *sql.DB directly for
// queries; they go through conn so that an ambient transaction is honoured.
type DB struct {
	*sql.DB
	dialect            Dialect
	queries            queryBuilder
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect Dialect, log *logger.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: dialect,
		queries: newQueryBuilder(dialect),
		logger:  log,
	}

	switch dialect {
	case DialectSQLite:
		db.errorClassificator = NewSQLiteErrorClassifier()
	default:
		db.errorClassificator = NewPostgresErrorClassifier()
	}

	return db
}

// Dialect returns the SQL flavour of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Migrate applies the embedded migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, string(db.dialect))
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txCtxKey struct{}

// conn returns the transaction carried by ctx, or the pool.
func (db *DB) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txCtxKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}

// WithinTransaction runs fn inside a single transaction. Repositories called
// with the context passed to fn take part in it. A nested call joins the
// outer transaction. The transaction is committed when fn returns nil and
// rolled back otherwise.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "DB.WithinTransaction").Msg("error during opening transaction")
		return db.mapError(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "DB.WithinTransaction").Msg("failed to commit transaction")
		return db.mapError(ErrCommitingTransaction, err)
	}

	return nil
}

// nullableID converts an optional id into a value squirrel renders as
// either "= ?" or "IS NULL".
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func scanNullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func builderFor(dialect Dialect) sq.StatementBuilderType {
	if dialect == DialectSQLite {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}
