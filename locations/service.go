package locations

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/user/placereview-go/validation"
)

// LocationService creates and reads locations.
type LocationService struct {
	db *sqlx.DB
}

// NewLocationService creates a LocationService over conn.
func NewLocationService(conn *sqlx.DB) *LocationService {
	return &LocationService{db: conn}
}

// List returns every stored location.
func (s *LocationService) List(ctx context.Context) ([]Location, error) {
	return NewRepository(s.db).List(ctx)
}

// Get returns one location or a NotFoundError.
func (s *LocationService) Get(ctx context.Context, id int64) (*Location, error) {
	return NewRepository(s.db).FindByID(ctx, id)
}

// Exists reports whether a location with the given id is stored.
// Reviews use it to check their location reference.
func (s *LocationService) Exists(ctx context.Context, id int64) (bool, error) {
	return NewRepository(s.db).Exists(ctx, id)
}

// Create validates req and stores a new location.
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*Location, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	l := &Location{Name: req.Name, CreatedAt: time.Now().UTC()}
	if err := NewRepository(s.db).Insert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
