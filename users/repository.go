package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/user/placereview-go/apperror"
)

const userColumns = `id, email, password_hash, name, created_at, updated_at`

// Repository runs user queries against either the pool or an open transaction.
// Queries are written with ? placeholders and rebound for the active driver.
type Repository struct {
	q sqlx.ExtContext
}

// NewRepository binds a Repository to q (a *sqlx.DB or *sqlx.Tx).
func NewRepository(q sqlx.ExtContext) *Repository {
	return &Repository{q: q}
}

// List returns every user ordered by id.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	var rows []userRow
	query := r.q.Rebind(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}

	list := make([]User, 0, len(rows))
	for i := range rows {
		list = append(list, *rows[i].toEntity())
	}
	return list, nil
}

// FindByID returns the user with the given id or a NotFoundError.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	var row userRow
	query := r.q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return row.toEntity(), nil
}

// Exists reports whether a user with the given id is stored.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	query := r.q.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`)
	if err := sqlx.GetContext(ctx, r.q, &found, query, id); err != nil {
		return false, apperror.NewDatabaseError("failed to check user", err)
	}
	return found, nil
}

// EmailTaken reports whether email belongs to a user other than excludeID.
// Pass 0 to check against every user.
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var found bool
	query := r.q.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE email = ? AND id <> ?)`)
	if err := sqlx.GetContext(ctx, r.q, &found, query, email, excludeID); err != nil {
		return false, apperror.NewDatabaseError("failed to check email uniqueness", err)
	}
	return found, nil
}

// Insert stores u and sets its ID. The raw driver error stays in the chain
// so callers can detect unique violations.
func (r *Repository) Insert(ctx context.Context, u *User) error {
	query := r.q.Rebind(`INSERT INTO users (email, password_hash, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	row := r.q.QueryRowxContext(ctx, query, u.Email, u.PasswordHash, nullString(u.Name), u.CreatedAt, u.UpdatedAt)
	if err := row.Scan(&u.ID); err != nil {
		return apperror.NewDatabaseError("failed to create user", err)
	}
	return nil
}

// Update writes every mutable column of u.
func (r *Repository) Update(ctx context.Context, u *User) error {
	query := r.q.Rebind(`UPDATE users SET email = ?, password_hash = ?, name = ?, updated_at = ? WHERE id = ?`)
	res, err := r.q.ExecContext(ctx, query, u.Email, u.PasswordHash, nullString(u.Name), u.UpdatedAt, u.ID)
	if err != nil {
		return apperror.NewDatabaseError("failed to update user", err)
	}
	return requireAffected(res, u.ID)
}

// Delete removes the user row only; dependent rows are the caller's concern.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete user", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabaseError("failed to read affected rows", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
	}
	return nil
}
