package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/placereview-go/apperror"
	"github.com/user/placereview-go/db/dbtest"
)

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperror.FromError(err)
	require.True(t, ok, "expected *apperror.AppError, got %v", err)
	require.Equal(t, apperror.ValidationError, appErr.Type)

	out := make(map[string]string, len(appErr.Fields))
	for _, f := range appErr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestCreate(t *testing.T) {
	s, conn := newTestService(t)

	req := validUserAttributes()
	req.Email = "  Jane@Example.COM "
	u, err := s.Create(context.Background(), req)
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "Jane Doe", *u.Name)
	assert.NotEqual(t, req.Password, u.PasswordHash)
	assert.True(t, passwordMatches(u, req.Password))
	assert.False(t, passwordMatches(u, "wrong-password"))
	assert.Equal(t, 1, dbtest.Count(t, conn, "users"))

	stored, err := s.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, stored.Email)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestCreateRejectsInvalidAttributes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateUserRequest)
		want   map[string]string
	}{
		{
			name:   "factory invalid set",
			mutate: func(r *CreateUserRequest) { *r = invalidUserAttributes() },
			want: map[string]string{
				"email":    "is invalid",
				"password": "is too short (minimum is 6 characters)",
			},
		},
		{
			name:   "blank email and password",
			mutate: func(r *CreateUserRequest) { r.Email = "   "; r.Password = "" },
			want:   map[string]string{"email": "can't be blank", "password": "can't be blank"},
		},
		{
			name:   "password too long",
			mutate: func(r *CreateUserRequest) { r.Password = strings.Repeat("p", 73) },
			want:   map[string]string{"password": "is too long (maximum is 72 characters)"},
		},
		{
			name:   "multi-byte password over bcrypt's byte limit",
			mutate: func(r *CreateUserRequest) { r.Password = strings.Repeat("é", 40) },
			want:   map[string]string{"password": "is too long (maximum is 72 bytes)"},
		},
		{
			name:   "name too long",
			mutate: func(r *CreateUserRequest) { r.Name = strPtr(strings.Repeat("n", 256)) },
			want:   map[string]string{"name": "is too long (maximum is 255 characters)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, conn := newTestService(t)

			req := validUserAttributes()
			tt.mutate(&req)
			u, err := s.Create(context.Background(), req)

			assert.Nil(t, u)
			assert.Equal(t, tt.want, fieldMessages(t, err))
			assert.Equal(t, 0, dbtest.Count(t, conn, "users"))
		})
	}
}

func TestCreateAcceptsMultiBytePasswordWithinLimit(t *testing.T) {
	s, conn := newTestService(t)

	req := validUserAttributes()
	req.Password = strings.Repeat("é", 36)
	u, err := s.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, passwordMatches(u, req.Password))
	assert.Equal(t, 1, dbtest.Count(t, conn, "users"))
}

func TestCreateDuplicateEmail(t *testing.T) {
	s, conn := newTestService(t)
	mustCreate(t, s, validUserAttributes())

	dup := validUserAttributes()
	dup.Email = "JANE@example.com"
	_, err := s.Create(context.Background(), dup)

	assert.Equal(t, map[string]string{"email": "has already been taken"}, fieldMessages(t, err))
	assert.Equal(t, 1, dbtest.Count(t, conn, "users"))
}

func TestCreateBlankNameIsStoredAsNull(t *testing.T) {
	s, _ := newTestService(t)

	req := validUserAttributes()
	req.Name = strPtr("  ")
	u := mustCreate(t, s, req)

	stored, err := s.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Name)
}

func TestList(t *testing.T) {
	s, _ := newTestService(t)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	first := mustCreate(t, s, validUserAttributes())
	second := validUserAttributes()
	second.Email = "john@example.com"
	mustCreate(t, s, second)

	list, err = s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "john@example.com", list[1].Email)
}

func TestGetNotFound(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Get(context.Background(), 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate(t *testing.T) {
	s, _ := newTestService(t)
	u := mustCreate(t, s, validUserAttributes())

	updated, err := s.Update(context.Background(), u.ID, UpdateUserRequest{Email: strPtr("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Jane Doe", *updated.Name, "absent attributes keep their value")
	assert.Equal(t, u.PasswordHash, updated.PasswordHash)
	assert.False(t, updated.UpdatedAt.Before(u.UpdatedAt))

	stored, err := s.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
}

func TestUpdatePasswordAndName(t *testing.T) {
	s, _ := newTestService(t)
	u := mustCreate(t, s, validUserAttributes())

	updated, err := s.Update(context.Background(), u.ID, UpdateUserRequest{
		Password: strPtr("another-secret"),
		Name:     strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Name)
	assert.True(t, passwordMatches(updated, "another-secret"))
	assert.False(t, passwordMatches(updated, "s3cretpass"))
}

func TestUpdateInvalidLeavesRecordUnchanged(t *testing.T) {
	s, _ := newTestService(t)
	u := mustCreate(t, s, validUserAttributes())

	_, err := s.Update(context.Background(), u.ID, UpdateUserRequest{
		Email:    strPtr("broken"),
		Password: strPtr("x"),
	})
	assert.Equal(t, map[string]string{
		"email":    "is invalid",
		"password": "is too short (minimum is 6 characters)",
	}, fieldMessages(t, err))

	stored, err := s.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestUpdateRejectsPasswordOverByteLimit(t *testing.T) {
	s, _ := newTestService(t)
	u := mustCreate(t, s, validUserAttributes())

	_, err := s.Update(context.Background(), u.ID, UpdateUserRequest{Password: strPtr(strings.Repeat("é", 40))})
	assert.Equal(t, map[string]string{"password": "is too long (maximum is 72 bytes)"}, fieldMessages(t, err))

	stored, err := s.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestUpdateEmailUniqueness(t *testing.T) {
	s, _ := newTestService(t)
	jane := mustCreate(t, s, validUserAttributes())
	other := validUserAttributes()
	other.Email = "john@example.com"
	john := mustCreate(t, s, other)

	_, err := s.Update(context.Background(), john.ID, UpdateUserRequest{Email: strPtr(jane.Email)})
	assert.Equal(t, map[string]string{"email": "has already been taken"}, fieldMessages(t, err))

	// Re-submitting one's own email is not a conflict.
	_, err = s.Update(context.Background(), jane.ID, UpdateUserRequest{Email: strPtr("Jane@Example.com")})
	assert.NoError(t, err)
}

func TestUpdateNotFound(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Update(context.Background(), 42, UpdateUserRequest{Email: strPtr("a@example.com")})
	assert.True(t, apperror.IsNotFound(err))
}

func TestDestroy(t *testing.T) {
	var hookedIDs []int64
	hook := func(ctx context.Context, tx *sqlx.Tx, userID int64) error {
		hookedIDs = append(hookedIDs, userID)
		return nil
	}
	s, conn := newTestService(t, WithDestroyHook(hook))
	u := mustCreate(t, s, validUserAttributes())

	require.NoError(t, s.Destroy(context.Background(), u.ID))
	assert.Equal(t, 0, dbtest.Count(t, conn, "users"))
	assert.Equal(t, []int64{u.ID}, hookedIDs)

	err := s.Destroy(context.Background(), u.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Len(t, hookedIDs, 1, "hooks do not run for absent users")
}

func TestDestroyHookFailureRollsBack(t *testing.T) {
	hookErr := errors.New("cleanup failed")
	s, conn := newTestService(t, WithDestroyHook(func(context.Context, *sqlx.Tx, int64) error {
		return hookErr
	}))
	u := mustCreate(t, s, validUserAttributes())

	err := s.Destroy(context.Background(), u.ID)
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, 1, dbtest.Count(t, conn, "users"))
}
