package locations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/user/placereview-go/apperror"
)

// Repository runs location queries on a *sqlx.DB or *sqlx.Tx.
type Repository struct {
	q sqlx.ExtContext
}

// NewRepository binds a Repository to q (a *sqlx.DB or *sqlx.Tx).
func NewRepository(q sqlx.ExtContext) *Repository {
	return &Repository{q: q}
}

// List returns every location ordered by id. The result is never nil, so it
// encodes as [] when empty.
func (r *Repository) List(ctx context.Context) ([]Location, error) {
	list := []Location{}
	query := r.q.Rebind(`SELECT id, name, created_at FROM locations ORDER BY id`)
	if err := sqlx.SelectContext(ctx, r.q, &list, query); err != nil {
		return nil, apperror.NewDatabaseError("failed to list locations", err)
	}
	return list, nil
}

// FindByID returns the location with the given id or a NotFoundError.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Location, error) {
	var l Location
	query := r.q.Rebind(`SELECT id, name, created_at FROM locations WHERE id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("location with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get location", err)
	}
	return &l, nil
}

// Exists reports whether a location with the given id is stored.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	query := r.q.Rebind(`SELECT EXISTS (SELECT 1 FROM locations WHERE id = ?)`)
	if err := sqlx.GetContext(ctx, r.q, &found, query, id); err != nil {
		return false, apperror.NewDatabaseError("failed to check location", err)
	}
	return found, nil
}

// Insert stores l and sets its ID.
func (r *Repository) Insert(ctx context.Context, l *Location) error {
	query := r.q.Rebind(`INSERT INTO locations (name, created_at) VALUES (?, ?) RETURNING id`)
	if err := r.q.QueryRowxContext(ctx, query, l.Name, l.CreatedAt).Scan(&l.ID); err != nil {
		return apperror.NewDatabaseError("failed to create location", err)
	}
	return nil
}
