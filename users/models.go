// Package users implements the users resource: persistence, business rules,
// serialization and the HTTP handlers mounted at /api/v1/users.
package users

import (
	"database/sql"
	"time"
)

// User is the persisted user entity. PasswordHash is never encoded.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// userRow mirrors the users table for sqlx scanning.
type userRow struct {
	ID           int64          `db:"id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Name         sql.NullString `db:"name"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r *userRow) toEntity() *User {
	u := &User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Name.Valid {
		name := r.Name.String
		u.Name = &name
	}
	return u
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
