// Package reviews handles reviews: a rated comment a user writes about a location.
package reviews

import (
	"encoding/json"
	"time"
)

// Review is the persisted review entity.
type Review struct {
	ID         int64     `db:"id" json:"id" example:"1"`
	Comment    string    `db:"comment" json:"comment" example:"Great coffee"`
	Rating     int       `db:"rating" json:"rating" example:"8"`
	UserID     int64     `db:"user_id" json:"user_id" example:"1"`
	LocationID int64     `db:"location_id" json:"location_id" example:"1"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CreateReviewRequest carries the attributes for a new review, bare or as {"review": {...}}.
// The referenced user and location must exist. Rating is kept as the raw JSON
// number so that fractions and out-of-range values become field errors.
type CreateReviewRequest struct {
	Comment    string      `json:"comment" validate:"notblank" example:"Great coffee"`
	Rating     json.Number `json:"rating" swaggertype:"integer" example:"8"`
	UserID     int64       `json:"user_id" example:"1"`
	LocationID int64       `json:"location_id" example:"1"`
}

// ReviewFilter narrows List. Nil fields do not filter.
type ReviewFilter struct {
	UserID     *int64
	LocationID *int64
}
