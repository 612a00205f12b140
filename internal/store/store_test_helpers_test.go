// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

func newTestDB(t *testing.T, dialect Dialect) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return newDB(conn, dialect, logger.Nop()), mock
}

func testContext() context.Context {
	return logger.Nop().WithContext(context.Background())
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func int64Ptr(v int64) *int64 { return &v }
