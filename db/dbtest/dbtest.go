// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/user/placereview-go/config"
	"github.com/user/placereview-go/db"
)

// Open returns a SQLite database in t.TempDir() with the schema applied.
// Every call yields an isolated store that is closed when the test ends.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.EnsureSchema(context.Background(), conn), "failed to create schema")
	return conn
}

// Count returns the number of rows in table.
func Count(t *testing.T, conn *sqlx.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, conn.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
