package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/user/placereview-go/apperror"
)

const reviewColumns = `id, comment, rating, user_id, location_id, created_at, updated_at`

// Repository runs review queries on a *sqlx.DB or *sqlx.Tx.
type Repository struct {
	q sqlx.ExtContext
}

// NewRepository binds a Repository to q. Pass the *sqlx.Tx when the queries
// must see, or be rolled back with, other writes of the same transaction.
func NewRepository(q sqlx.ExtContext) *Repository {
	return &Repository{q: q}
}

// List returns the reviews matching f, ordered by id.
func (r *Repository) List(ctx context.Context, f ReviewFilter) ([]Review, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.LocationID != nil {
		where = append(where, "location_id = ?")
		args = append(args, *f.LocationID)
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	list := []Review{}
	if err := sqlx.SelectContext(ctx, r.q, &list, r.q.Rebind(query), args...); err != nil {
		return nil, apperror.NewDatabaseError("failed to list reviews", err)
	}
	return list, nil
}

// FindByID returns the review with the given id or a NotFoundError.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Review, error) {
	var rev Review
	query := r.q.Rebind(`SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &rev, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("review with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get review", err)
	}
	return &rev, nil
}

// Insert stores rev and sets its ID from the generated key.
// The rating CHECK constraint in the schema backs up service validation.
func (r *Repository) Insert(ctx context.Context, rev *Review) error {
	query := r.q.Rebind(`INSERT INTO reviews (comment, rating, user_id, location_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	row := r.q.QueryRowxContext(ctx, query, rev.Comment, rev.Rating, rev.UserID, rev.LocationID, rev.CreatedAt, rev.UpdatedAt)
	if err := row.Scan(&rev.ID); err != nil {
		return apperror.NewDatabaseError("failed to create review", err)
	}
	return nil
}

// DeleteByUser removes every review written by userID and returns how many went.
func (r *Repository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM reviews WHERE user_id = ?`), userID)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete reviews", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to read affected rows", err)
	}
	return n, nil
}
