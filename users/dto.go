package users

import (
	"strings"
	"time"
)

// CreateUserRequest is the attribute set accepted by POST /api/v1/users.
// The body may be bare or wrapped as {"user": {...}}.
type CreateUserRequest struct {
	// example: "jane@example.com"
	Email string `json:"email" example:"jane@example.com"`
	// Write-only; stored as a bcrypt hash.
	Password string `json:"password" example:"s3cretpass"`
	// Optional display name.
	Name *string `json:"name,omitempty" example:"Jane Doe"`
}

// UpdateUserRequest carries a partial attribute set for PUT/PATCH.
// Nil fields keep their stored value; an empty name clears it.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" example:"jane.doe@example.com"`
	Password *string `json:"password,omitempty" example:"n3wsecret"`
	Name     *string `json:"name,omitempty" example:"Jane D."`
}

// UserResponse is the external representation of a user. It has no password
// field of any kind.
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Email     string    `json:"email" example:"jane@example.com"`
	Name      *string   `json:"name" example:"Jane Doe"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// userAttributes is the merged state checked before every write.
type userAttributes struct {
	Email string  `json:"email" validate:"required,email,max=255"`
	Name  *string `json:"name" validate:"omitempty,max=255"`
}

// passwordRules applies to every password a client sends. bcrypt rejects
// input over 72 bytes, so multi-byte passwords are bounded by bytes as well.
const passwordRules = "required,min=6,max=72,maxbytes=72"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeName trims the name and maps an empty result to nil.
func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
