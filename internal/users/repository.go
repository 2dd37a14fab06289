// Package users implements the member record store: a keyed collection of
// user profiles with uniqueness checks, backed interchangeably by the local
// key-value store or by a remote PostgreSQL users table.
package users

import (
	"context"

	"github.com/creatorspace/memberkit/internal/models"
)

// Repository is the record-store contract. Implementations must key records
// by username and keep email unique; lookups for absent records return
// common.ErrNotFound.
type Repository interface {
	// All returns every record keyed by username. An uninitialized or
	// corrupted collection reads as empty, never as nil.
	All(ctx context.Context) (map[string]models.User, error)

	Get(ctx context.Context, username string) (*models.User, error)

	// GetByEmail scans the collection for a matching email. The local
	// variant is a linear, non-indexed scan; acceptable at membership-site
	// scale.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Upsert writes or overwrites the record keyed by its username.
	Upsert(ctx context.Context, user *models.User) error
}
