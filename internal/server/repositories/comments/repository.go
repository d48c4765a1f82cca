// Package comments persists the Comment aggregate.
package comments

import (
	"context"

	"github.com/dmitrijs2005/conduit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListByArticle returns an article's comments oldest-first.
	ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error)

	Delete(ctx context.Context, id string) error

	// DeleteByArticle removes every comment of an article; used when the
	// article itself is deleted. Zero matches is not an error.
	DeleteByArticle(ctx context.Context, articleID string) error
}
