// Package users persists the User aggregate, including the document-style
// following/favorites sets maintained on the user row.
package users

import (
	"context"

	"github.com/dmitrijs2005/conduit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Update writes every mutable field of the user row, including the
	// following/favorites sets. Read-modify-write with last-write-wins
	// semantics; there is no version check.
	Update(ctx context.Context, user *models.User) error

	// CountFavoriting returns the number of users whose favorites set
	// contains the given article id. This is the ground truth the
	// materialized favorites_count is recomputed from.
	CountFavoriting(ctx context.Context, articleID string) (int, error)
}
