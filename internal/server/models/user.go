// Package models holds the persisted aggregates of the Conduit server and
// the pure predicates defined on them. References between aggregates are id
// strings resolved through repositories, never embedded object graphs.
package models

import "time"

// DefaultImage is the placeholder avatar used when a user has not set one.
const DefaultImage = "https://yt3.ggpht.com/a-/AJLlDp3pDQMFfJwDmdDpTWMfrFhDUmrpY-Xy6sagUw=s900-mo-c-c0xffffffff-rj-k-no"

// User is a registered identity. Following and Favorites are sets of ids
// (no duplicates); Salt and Hash are the PBKDF2 credential material, the
// plaintext password is never stored.
type User struct {
	ID        string
	Username  string
	Email     string
	Bio       string
	Image     string
	Salt      string
	Hash      string
	Following []string
	Favorites []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ImageOrDefault returns the avatar URL, falling back to the placeholder.
func (u *User) ImageOrDefault() string {
	if u.Image == "" {
		return DefaultImage
	}
	return u.Image
}

// Follow adds id to the following set. Adding an id that is already present
// is a no-op; the set never holds duplicates. Reports whether the set changed.
func (u *User) Follow(id string) bool {
	if contains(u.Following, id) {
		return false
	}
	u.Following = append(u.Following, id)
	return true
}

// Unfollow removes id from the following set. Removing an absent id is a
// no-op, not an error. Reports whether the set changed.
func (u *User) Unfollow(id string) bool {
	if !contains(u.Following, id) {
		return false
	}
	u.Following = remove(u.Following, id)
	return true
}

// IsFollowing reports membership of id in the following set.
func (u *User) IsFollowing(id string) bool {
	return contains(u.Following, id)
}

// Favorite adds an article id to the favorites set, idempotently.
// Reports whether the set changed.
func (u *User) Favorite(articleID string) bool {
	if contains(u.Favorites, articleID) {
		return false
	}
	u.Favorites = append(u.Favorites, articleID)
	return true
}

// Unfavorite removes an article id from the favorites set; absent ids are a
// no-op. Reports whether the set changed.
func (u *User) Unfavorite(articleID string) bool {
	if !contains(u.Favorites, articleID) {
		return false
	}
	u.Favorites = remove(u.Favorites, articleID)
	return true
}

// IsFavorite reports membership of articleID in the favorites set.
func (u *User) IsFavorite(articleID string) bool {
	return contains(u.Favorites, articleID)
}

// Ids are compared by their canonical string form, since the store returns
// reconstructed values, not shared references.
func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func remove(set []string, id string) []string {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
