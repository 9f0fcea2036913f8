package reviews

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/user/placereview-go/db"
	"github.com/user/placereview-go/locations"
	"github.com/user/placereview-go/users"
	"github.com/user/placereview-go/validation"
)

const mustExistMessage = "must exist"

// ReviewService creates and reads reviews.
type ReviewService struct {
	db *sqlx.DB
}

// NewReviewService creates a ReviewService over conn. Every write runs in
// its own transaction on conn.
func NewReviewService(conn *sqlx.DB) *ReviewService {
	return &ReviewService{db: conn}
}

// Create validates req, checks that the referenced user and location exist and
// stores the review, all in one transaction. Nothing is written on failure.
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*Review, error) {
	req.Comment = strings.TrimSpace(req.Comment)

	var created *Review
	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		errs := validation.Struct(req)
		rating, ratingErrs := parseRating(req.Rating)
		errs = append(errs, ratingErrs...)

		userOK, err := referenceExists(ctx, users.NewRepository(tx).Exists, req.UserID)
		if err != nil {
			return err
		}
		if !userOK {
			errs = errs.Add("user", mustExistMessage)
		}

		locationOK, err := referenceExists(ctx, locations.NewRepository(tx).Exists, req.LocationID)
		if err != nil {
			return err
		}
		if !locationOK {
			errs = errs.Add("location", mustExistMessage)
		}

		if err := errs.Err(); err != nil {
			return err
		}

		now := time.Now().UTC()
		rev := &Review{
			Comment:    req.Comment,
			Rating:     rating,
			UserID:     req.UserID,
			LocationID: req.LocationID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := NewRepository(tx).Insert(ctx, rev); err != nil {
			return err
		}
		created = rev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one review or a NotFoundError.
func (s *ReviewService) Get(ctx context.Context, id int64) (*Review, error) {
	return NewRepository(s.db).FindByID(ctx, id)
}

// List returns the reviews matching f, oldest first.
func (s *ReviewService) List(ctx context.Context, f ReviewFilter) ([]Review, error) {
	return NewRepository(s.db).List(ctx, f)
}

// DeleteForUser removes the reviews of a user that is being destroyed.
// It has the users.DestroyHook signature.
func DeleteForUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := NewRepository(tx).DeleteByUser(ctx, userID)
	return err
}

// parseRating accepts whole numbers from 1 to 10.
func parseRating(raw json.Number) (int, validation.Errors) {
	if raw == "" {
		return 0, validation.Errors{}.Add("rating", "can't be blank")
	}
	f, err := raw.Float64()
	if err != nil {
		return 0, validation.Errors{}.Add("rating", "is not a number")
	}
	if f != math.Trunc(f) {
		return 0, validation.Errors{}.Add("rating", "must be an integer")
	}
	if errs := validation.Var("rating", f, "min=1,max=10"); len(errs) > 0 {
		return 0, errs
	}
	return int(f), nil
}

func referenceExists(ctx context.Context, exists func(context.Context, int64) (bool, error), id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return exists(ctx, id)
}
