package services

// In-memory fakes of the repository interfaces, shared by the service tests.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/conduit/internal/common"
	"github.com/dmitrijs2005/conduit/internal/dbx"
	"github.com/dmitrijs2005/conduit/internal/server/models"
	articlesrepo "github.com/dmitrijs2005/conduit/internal/server/repositories/articles"
	commentsrepo "github.com/dmitrijs2005/conduit/internal/server/repositories/comments"
	"github.com/dmitrijs2005/conduit/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/conduit/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	users map[string]*models.User

	createErr error
	updateErr error

	updateCalls int

	favoritingCount int
	favoritingErr   error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", len(f.users)+1)
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls++
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsersRepo) CountFavoriting(ctx context.Context, articleID string) (int, error) {
	if f.favoritingErr != nil {
		return 0, f.favoritingErr
	}
	return f.favoritingCount, nil
}

type favCountUpdate struct {
	id    string
	count int
}

type fakeArticlesRepo struct {
	articles map[string]*models.Article // by slug

	createErr error

	favCountUpdates []favCountUpdate

	lastFilter *articlesrepo.Filter
	listOut    []*models.Article
	listTotal  int

	deleted []string

	tags []string
}

func newFakeArticlesRepo(arts ...*models.Article) *fakeArticlesRepo {
	f := &fakeArticlesRepo{articles: map[string]*models.Article{}}
	for _, a := range arts {
		f.articles[a.Slug] = a
	}
	return f
}

func (f *fakeArticlesRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if a.ID == "" {
		a.ID = fmt.Sprintf("art-%d", len(f.articles)+1)
	}
	f.articles[a.Slug] = a
	return a, nil
}

func (f *fakeArticlesRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	if a, ok := f.articles[slug]; ok {
		return a, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeArticlesRepo) Update(ctx context.Context, a *models.Article) error {
	f.articles[a.Slug] = a
	return nil
}

func (f *fakeArticlesRepo) UpdateFavoritesCount(ctx context.Context, id string, count int) error {
	f.favCountUpdates = append(f.favCountUpdates, favCountUpdate{id: id, count: count})
	return nil
}

func (f *fakeArticlesRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeArticlesRepo) List(ctx context.Context, filter articlesrepo.Filter) ([]*models.Article, int, error) {
	f.lastFilter = &filter
	return f.listOut, f.listTotal, nil
}

func (f *fakeArticlesRepo) Tags(ctx context.Context) ([]string, error) {
	return f.tags, nil
}

type fakeCommentsRepo struct {
	comments map[string]*models.Comment

	deleted          []string
	deletedByArticle []string
}

func newFakeCommentsRepo(cs ...*models.Comment) *fakeCommentsRepo {
	f := &fakeCommentsRepo{comments: map[string]*models.Comment{}}
	for _, c := range cs {
		f.comments[c.ID] = c
	}
	return f
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if c.ID == "" {
		c.ID = fmt.Sprintf("c-%d", len(f.comments)+1)
	}
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeCommentsRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeCommentsRepo) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	out := []*models.Comment{}
	for _, c := range f.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.comments, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCommentsRepo) DeleteByArticle(ctx context.Context, articleID string) error {
	f.deletedByArticle = append(f.deletedByArticle, articleID)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeArticlesRepo
	c *fakeCommentsRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Articles(db dbx.DBTX) articlesrepo.Repository   { return m.a }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository   { return m.c }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
