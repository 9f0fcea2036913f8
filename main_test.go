package main

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestInitDBCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", path)
	t.Setenv("LOG_LEVEL", "disabled")

	err := newApp().Run([]string{"placereview", "--env-file", filepath.Join(t.TempDir(), "missing.env"), "init-db"})
	require.NoError(t, err)

	conn, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer conn.Close()

	var tables []string
	require.NoError(t, conn.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	assert.Equal(t, []string{"locations", "reviews", "users"}, tables)
}

func TestInitDBReportsConfigErrors(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	err := newApp().Run([]string{"placereview", "--env-file", filepath.Join(t.TempDir(), "missing.env"), "init-db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}
