package models

import "time"

// Article is a unit of user-generated content. AuthorID is immutable after
// creation. FavoritesCount is a materialized cache of how many users hold
// this article in their favorites set; it is recomputed from that ground
// truth, never incremented or decremented in place.
type Article struct {
	ID             string
	Slug           string
	Title          string
	Description    string
	Body           string
	TagList        []string
	FavoritesCount int
	AuthorID       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanModify reports whether the identity with the given id may edit or
// delete this article. Ids are compared in their canonical string form.
func (a *Article) CanModify(identityID string) bool {
	return a.AuthorID != "" && a.AuthorID == identityID
}
