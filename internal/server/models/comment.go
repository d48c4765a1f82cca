package models

import "time"

// Comment belongs to an article; AuthorID and ArticleID are immutable.
type Comment struct {
	ID        string
	Body      string
	AuthorID  string
	ArticleID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanDeleteBy reports whether the identity with the given id may delete
// this comment. Only the comment's author may.
func (c *Comment) CanDeleteBy(identityID string) bool {
	return c.AuthorID != "" && c.AuthorID == identityID
}
