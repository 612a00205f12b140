// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the goose schema migrations for every supported
// SQL dialect.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

var (
	ErrNilDB              = errors.New("migration error: db is nil")
	ErrUnsupportedDialect = errors.New("migration error: unsupported dialect")
)

// dialect name -> migration directory and goose dialect
var dialects = map[string]struct {
	dir   string
	goose string
}{
	"postgres": {dir: "postgres", goose: "postgres"},
	"pgx":      {dir: "postgres", goose: "postgres"},
	"sqlite3":  {dir: "sqlite", goose: "sqlite3"},
	"sqlite":   {dir: "sqlite", goose: "sqlite3"},
}

// Migrate brings the schema of db up to date using the migration set of dialect.
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return ErrNilDB
	}

	set, ok := dialects[dialect]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(set.goose); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, set.dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
