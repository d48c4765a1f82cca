// Package articles persists the Article aggregate and its materialized
// favorites count, and serves the listing/tag queries.
package articles

import (
	"context"

	"github.com/dmitrijs2005/conduit/internal/server/models"
)

// Filter narrows List results. Zero values mean "no constraint". AuthorIDs
// and IDs filters with an empty (non-nil) slice match nothing, which is how
// an empty feed or favorites set lists zero articles without a query.
type Filter struct {
	Tag       string
	AuthorID  string
	AuthorIDs []string
	IDs       []string
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)

	// Update writes the mutable content fields (slug, title, description,
	// body, tag list). The author and the favorites count are not touched.
	Update(ctx context.Context, article *models.Article) error

	// UpdateFavoritesCount overwrites the materialized counter with a value
	// recomputed from the ground-truth favorites sets. It is the only
	// writer of favorites_count.
	UpdateFavoritesCount(ctx context.Context, id string, count int) error

	Delete(ctx context.Context, id string) error

	// List returns matching articles newest-first plus the total count
	// matching the filter ignoring limit/offset.
	List(ctx context.Context, f Filter) ([]*models.Article, int, error)

	// Tags returns the distinct tag values across all articles.
	Tags(ctx context.Context) ([]string, error)
}
