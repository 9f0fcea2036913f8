package users

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/placereview-go/apperror"
	"github.com/user/placereview-go/db"
	"github.com/user/placereview-go/validation"
)

const emailTakenMessage = "has already been taken"

// DestroyHook removes rows that belong to a user. It runs inside the
// transaction that deletes the user, before the user row goes.
type DestroyHook func(ctx context.Context, tx *sqlx.Tx, userID int64) error

// Option configures a UserService.
type Option func(*UserService)

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func WithBcryptCost(cost int) Option {
	return func(s *UserService) { s.bcryptCost = cost }
}

// WithDestroyHook registers a hook run by Destroy.
func WithDestroyHook(hook DestroyHook) Option {
	return func(s *UserService) { s.destroyHooks = append(s.destroyHooks, hook) }
}

// UserService holds the business rules for users: validation, email
// uniqueness, password hashing and cascading deletion.
type UserService struct {
	db           *sqlx.DB
	bcryptCost   int
	destroyHooks []DestroyHook
	now          func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(conn *sqlx.DB, opts ...Option) *UserService {
	s := &UserService{
		db:         conn,
		bcryptCost: bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every stored user.
func (s *UserService) List(ctx context.Context) ([]User, error) {
	return NewRepository(s.db).List(ctx)
}

// Get returns one user or a NotFoundError.
func (s *UserService) Get(ctx context.Context, id int64) (*User, error) {
	return NewRepository(s.db).FindByID(ctx, id)
}

// Create validates the attributes and stores a new user. Nothing is written
// when any attribute is rejected.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	now := s.now()
	u := &User{
		Email:     normalizeEmail(req.Email),
		Name:      normalizeName(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		errs := validation.Struct(userAttributes{Email: u.Email, Name: u.Name})
		errs = append(errs, validation.Var("password", req.Password, passwordRules)...)
		errs, err := s.checkEmail(ctx, repo, errs, u.Email, 0)
		if err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}

		if u.PasswordHash, err = s.hash(req.Password); err != nil {
			return err
		}
		return s.translateUnique(repo.Insert(ctx, u))
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies the supplied attributes to the user with the given id.
// Absent attributes keep their stored values; the stored record is left
// untouched when validation fails.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	var updated *User
	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		u := *current
		if req.Email != nil {
			u.Email = normalizeEmail(*req.Email)
		}
		if req.Name != nil {
			u.Name = normalizeName(req.Name)
		}

		errs := validation.Struct(userAttributes{Email: u.Email, Name: u.Name})
		if req.Password != nil {
			errs = append(errs, validation.Var("password", *req.Password, passwordRules)...)
		}
		if u.Email != current.Email {
			if errs, err = s.checkEmail(ctx, repo, errs, u.Email, id); err != nil {
				return err
			}
		}
		if err := errs.Err(); err != nil {
			return err
		}

		if req.Password != nil {
			if u.PasswordHash, err = s.hash(*req.Password); err != nil {
				return err
			}
		}
		u.UpdatedAt = s.now()
		if err := s.translateUnique(repo.Update(ctx, &u)); err != nil {
			return err
		}
		updated = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Destroy deletes the user and everything the registered hooks own, atomically.
func (s *UserService) Destroy(ctx context.Context, id int64) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
		}

		for _, hook := range s.destroyHooks {
			if err := hook(ctx, tx, id); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, id)
	})
}

// checkEmail adds the uniqueness error, skipping the lookup when the format
// is already rejected.
func (s *UserService) checkEmail(ctx context.Context, repo *Repository, errs validation.Errors, email string, excludeID int64) (validation.Errors, error) {
	if errs.Has("email") {
		return errs, nil
	}
	taken, err := repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return errs, err
	}
	if taken {
		errs = errs.Add("email", emailTakenMessage)
	}
	return errs, nil
}

// translateUnique maps a lost uniqueness race onto the same field error the
// pre-check produces.
func (s *UserService) translateUnique(err error) error {
	if err != nil && db.IsUniqueViolation(err) {
		return validation.Errors{}.Add("email", emailTakenMessage).Err()
	}
	return err
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", apperror.NewInternalError("failed to hash password", err)
	}
	return string(hashed), nil
}
