// Package db provides database connectivity for the placereview service.
// It opens the sqlx handle for the configured driver (PostgreSQL through pgx's
// database/sql adapter, or SQLite for local runs and tests), creates the schema,
// and offers a transaction helper and driver-independent error classification.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3" // registers the "sqlite3" driver; also used for error codes

	"github.com/user/placereview-go/apperror"
	"github.com/user/placereview-go/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Open establishes the connection pool described by cfg and verifies it with a ping.
func Open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN()
	if cfg.Driver == config.DriverSQLite {
		dsn = sqliteDSN(cfg.Path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := sqlx.ConnectContext(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to %s database", cfg.Driver), err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY between requests.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(cfg.MaxConns)
		conn.SetMaxIdleConns(cfg.MaxConns / 2)
		conn.SetConnMaxLifetime(30 * time.Minute)
		conn.SetConnMaxIdleTime(10 * time.Minute)
	}

	return conn, nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// Ping checks the connection with a short deadline; used by the health endpoint.
func Ping(ctx context.Context, conn *sqlx.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return apperror.NewDatabaseError("database unreachable", err)
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when it returns an error or panics.
func WithTx(ctx context.Context, conn *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else if cerr := tx.Commit(); cerr != nil {
			err = apperror.NewDatabaseError("failed to commit transaction", cerr)
		}
	}()

	err = fn(tx)
	return err
}

// IsUniqueViolation reports whether err was caused by a unique constraint,
// regardless of which driver produced it.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
