// Package store persists user records.
//
// Three implementations share the Store interface: Gorm talks to Postgres,
// Cached puts a Redis read-through cache in front of another Store, and
// Memory keeps everything in process for tests and local runs. All of them
// report common.ErrNotFound and common.ErrConflict.
package store

import (
	"context"
	"usuarios-backend/app/server/models"
)

type Store interface {
	// Create assigns user.ID. A duplicate username yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetCredentials is GetByUsername including the password hash, always
	// read from the system of record.
	GetCredentials(ctx context.Context, username string) (*models.User, error)
	// List returns users with Age >= minAge ordered by id, plus the total
	// number of matching users.
	List(ctx context.Context, minAge int, page Page) ([]models.User, int64, error)
	// UpdateProfile writes Name, Age and IsAdmin of user, matched by ID.
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// Page selects a window of a listing. A non-positive Limit selects everything.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) All() bool {
	return p.Limit <= 0
}
