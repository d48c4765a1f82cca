package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dmitrijs2005/conduit/internal/common"
	"github.com/dmitrijs2005/conduit/internal/dbx"
	"github.com/dmitrijs2005/conduit/internal/server/config"
	"github.com/dmitrijs2005/conduit/internal/server/models"
	"github.com/dmitrijs2005/conduit/internal/server/repositories/articles"
	"github.com/dmitrijs2005/conduit/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/conduit/internal/slug"
)

// ArticleService implements the content side of the API: article CRUD with
// generated slugs, the favorites ledger with its materialized count,
// comments, and tag listing.
type ArticleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewArticleService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ArticleService {
	return &ArticleService{db: db, repomanager: m}
}

// Create validates and stores a new article for the author. The slug is
// generated from the title with a random suffix and is not re-checked
// against storage; the unique index is the backstop.
func (s *ArticleService) Create(ctx context.Context, authorID, title, description, body string, tags []string) (*models.Article, error) {
	if err := validateArticle(title, body); err != nil {
		return nil, err
	}

	article := &models.Article{
		Slug:        slug.Make(title),
		Title:       title,
		Description: description,
		Body:        body,
		TagList:     tags,
		AuthorID:    authorID,
	}

	article, err := s.repomanager.Articles(s.db).Create(ctx, article)
	if err != nil {
		if _, ok := common.IsDuplicate(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error creating article: %w", err)
	}

	return article, nil
}

func (s *ArticleService) GetBySlug(ctx context.Context, slugStr string) (*models.Article, error) {
	return s.repomanager.Articles(s.db).GetBySlug(ctx, slugStr)
}

// ArticleUpdate carries optional article edits; nil fields are left as-is.
type ArticleUpdate struct {
	Title       *string
	Description *string
	Body        *string
}

// Update applies the non-nil fields of upd to the article addressed by
// slug. Only the author may update; anyone else gets ErrForbidden. A title
// change produces a fresh slug.
func (s *ArticleService) Update(ctx context.Context, userID, slugStr string, upd ArticleUpdate) (*models.Article, error) {
	repo := s.repomanager.Articles(s.db)

	article, err := repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}

	if !article.CanModify(userID) {
		return nil, common.ErrForbidden
	}

	if upd.Title != nil && *upd.Title != article.Title {
		article.Title = *upd.Title
		article.Slug = slug.Make(*upd.Title)
	}
	if upd.Description != nil {
		article.Description = *upd.Description
	}
	if upd.Body != nil {
		article.Body = *upd.Body
	}

	if err := validateArticle(article.Title, article.Body); err != nil {
		return nil, err
	}

	if err := repo.Update(ctx, article); err != nil {
		return nil, err
	}

	return article, nil
}

// Delete removes the article and its comments. Only the author may delete.
func (s *ArticleService) Delete(ctx context.Context, userID, slugStr string) error {
	article, err := s.repomanager.Articles(s.db).GetBySlug(ctx, slugStr)
	if err != nil {
		return err
	}

	if !article.CanModify(userID) {
		return common.ErrForbidden
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Comments(tx).DeleteByArticle(ctx, article.ID); err != nil {
			return err
		}
		return s.repomanager.Articles(tx).Delete(ctx, article.ID)
	})
}

// ListQuery narrows a listing: by tag, by author username, or by the
// username of a user who favorited the articles.
type ListQuery struct {
	Tag         string
	Author      string
	FavoritedBy string
	Limit       int
	Offset      int
}

// List returns articles newest-first plus the total match count. Unknown
// author or favoriter usernames yield an empty result, not an error.
func (s *ArticleService) List(ctx context.Context, q ListQuery) ([]*models.Article, int, error) {
	userRepo := s.repomanager.Users(s.db)

	f := articles.Filter{Tag: q.Tag, Limit: q.Limit, Offset: q.Offset}

	if q.Author != "" {
		author, err := userRepo.GetByUsername(ctx, q.Author)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return []*models.Article{}, 0, nil
			}
			return nil, 0, err
		}
		f.AuthorID = author.ID
	}

	if q.FavoritedBy != "" {
		favoriter, err := userRepo.GetByUsername(ctx, q.FavoritedBy)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return []*models.Article{}, 0, nil
			}
			return nil, 0, err
		}
		// empty favorites must match nothing, so pass a non-nil slice
		f.IDs = append([]string{}, favoriter.Favorites...)
	}

	return s.repomanager.Articles(s.db).List(ctx, f)
}

// Feed returns articles authored by users the caller follows, newest-first.
func (s *ArticleService) Feed(ctx context.Context, userID string, limit, offset int) ([]*models.Article, int, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	f := articles.Filter{
		AuthorIDs: append([]string{}, user.Following...),
		Limit:     limit,
		Offset:    offset,
	}

	return s.repomanager.Articles(s.db).List(ctx, f)
}

// Favorite adds the article to the user's favorites set (idempotently) and
// then recomputes the article's materialized count from the ground truth.
func (s *ArticleService) Favorite(ctx context.Context, userID, slugStr string) (*models.Article, *models.User, error) {
	return s.setFavorite(ctx, userID, slugStr, true)
}

// Unfavorite removes the article from the user's favorites set and
// recomputes the count. An absent favorite is a no-op.
func (s *ArticleService) Unfavorite(ctx context.Context, userID, slugStr string) (*models.Article, *models.User, error) {
	return s.setFavorite(ctx, userID, slugStr, false)
}

func (s *ArticleService) setFavorite(ctx context.Context, userID, slugStr string, favorite bool) (*models.Article, *models.User, error) {
	userRepo := s.repomanager.Users(s.db)

	article, err := s.repomanager.Articles(s.db).GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, nil, err
	}

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var changed bool
	if favorite {
		changed = user.Favorite(article.ID)
	} else {
		changed = user.Unfavorite(article.ID)
	}

	if changed {
		if err := userRepo.Update(ctx, user); err != nil {
			return nil, nil, err
		}
	}

	// recompute even when nothing changed, so a drifted counter heals on
	// the next mutation attempt
	if err := s.RecomputeFavoritesCount(ctx, article); err != nil {
		return nil, nil, err
	}

	return article, user, nil
}

// RecomputeFavoritesCount overwrites the article's favorites_count with the
// number of users actually holding it in their favorites set. The counter
// is never adjusted by a relative delta; concurrent favoriting converges
// because every call starts over from the membership ground truth.
func (s *ArticleService) RecomputeFavoritesCount(ctx context.Context, article *models.Article) error {
	count, err := s.repomanager.Users(s.db).CountFavoriting(ctx, article.ID)
	if err != nil {
		return err
	}

	if err := s.repomanager.Articles(s.db).UpdateFavoritesCount(ctx, article.ID, count); err != nil {
		return err
	}

	article.FavoritesCount = count
	return nil
}

// AddComment stores a comment by the user on the article addressed by slug.
func (s *ArticleService) AddComment(ctx context.Context, userID, slugStr, body string) (*models.Comment, error) {
	if err := (validation.Errors{
		"body": validation.Validate(body, validation.Required),
	}).Filter(); err != nil {
		return nil, err
	}

	article, err := s.repomanager.Articles(s.db).GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:      body,
		AuthorID:  userID,
		ArticleID: article.ID,
	}

	return s.repomanager.Comments(s.db).Create(ctx, comment)
}

// Comments returns the article's comments oldest-first.
func (s *ArticleService) Comments(ctx context.Context, slugStr string) ([]*models.Comment, error) {
	article, err := s.repomanager.Articles(s.db).GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}

	return s.repomanager.Comments(s.db).ListByArticle(ctx, article.ID)
}

// DeleteComment removes a comment from an article. Only the comment's
// author may delete it; a comment id under the wrong article is NotFound.
func (s *ArticleService) DeleteComment(ctx context.Context, userID, slugStr, commentID string) error {
	article, err := s.repomanager.Articles(s.db).GetBySlug(ctx, slugStr)
	if err != nil {
		return err
	}

	commentRepo := s.repomanager.Comments(s.db)

	comment, err := commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != article.ID {
		return common.ErrNotFound
	}

	if !comment.CanDeleteBy(userID) {
		return common.ErrForbidden
	}

	return commentRepo.Delete(ctx, commentID)
}

// Tags returns the distinct tags across all articles.
func (s *ArticleService) Tags(ctx context.Context) ([]string, error) {
	return s.repomanager.Articles(s.db).Tags(ctx)
}

func validateArticle(title, body string) error {
	return validation.Errors{
		"title": validation.Validate(title, validation.Required),
		"body":  validation.Validate(body, validation.Required),
	}.Filter()
}
