package users

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/placereview-go/db/dbtest"
)

func strPtr(s string) *string { return &s }

func validUserAttributes() CreateUserRequest {
	return CreateUserRequest{
		Email:    "jane@example.com",
		Password: "s3cretpass",
		Name:     strPtr("Jane Doe"),
	}
}

func invalidUserAttributes() CreateUserRequest {
	return CreateUserRequest{
		Email:    "not-an-email",
		Password: "123",
	}
}

func newTestService(t *testing.T, opts ...Option) (*UserService, *sqlx.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	opts = append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)
	return NewUserService(conn, opts...), conn
}

func mustCreate(t *testing.T, s *UserService, req CreateUserRequest) *User {
	t.Helper()
	u, err := s.Create(context.Background(), req)
	require.NoError(t, err)
	return u
}

func passwordMatches(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
