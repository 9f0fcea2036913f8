package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/user/placereview-go/apperror"
	"github.com/user/placereview-go/config"
)

// Statements are idempotent; there is no migration versioning.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name          VARCHAR(255),
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          BIGSERIAL PRIMARY KEY,
		comment     TEXT NOT NULL,
		rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 10),
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		location_id BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_user_id_idx ON reviews (user_id)`,
	`CREATE INDEX IF NOT EXISTS reviews_location_id_idx ON reviews (location_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT,
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		comment     TEXT NOT NULL,
		rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 10),
		user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_user_id_idx ON reviews (user_id)`,
	`CREATE INDEX IF NOT EXISTS reviews_location_id_idx ON reviews (location_id)`,
}

// EnsureSchema creates the users, locations and reviews tables when missing.
func EnsureSchema(ctx context.Context, conn *sqlx.DB) error {
	var statements []string
	switch conn.DriverName() {
	case config.DriverPostgres:
		statements = postgresSchema
	case config.DriverSQLite:
		statements = sqliteSchema
	default:
		return apperror.NewConfigError(fmt.Sprintf("no schema for driver %q", conn.DriverName()), nil)
	}

	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return apperror.NewDatabaseError("failed to create schema", err)
		}
	}
	return nil
}
