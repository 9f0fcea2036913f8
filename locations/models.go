// Package locations stores the places reviews are written about. Locations
// are a thin collaborator: they can be created, read and checked for existence.
package locations

import "time"

// Location is the persisted location entity.
type Location struct {
	ID        int64     `db:"id" json:"id" example:"1"`
	Name      string    `db:"name" json:"name" example:"Cafe Central"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateLocationRequest is accepted by POST /api/v1/locations, bare or as {"location": {...}}.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"notblank,max=255" example:"Cafe Central"`
}
