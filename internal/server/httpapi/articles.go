package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/conduit/internal/server/models"
	"github.com/dmitrijs2005/conduit/internal/server/services"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func listWindow(c *gin.Context) (limit, offset int) {
	limit = defaultListLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = min(v, maxListLimit)
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// renderArticleList resolves authors (memoized) and renders the
// {"articles": [...], "articlesCount": n} shape.
func (h *Handlers) renderArticleList(c *gin.Context, list []*models.Article, total int, viewer *models.User) {
	loader := h.newAuthorLoader()

	views := make([]articleView, 0, len(list))
	for _, a := range list {
		author, err := loader.load(c.Request.Context(), a.AuthorID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		views = append(views, newArticleView(a, author, viewer))
	}

	c.JSON(http.StatusOK, gin.H{"articles": views, "articlesCount": total})
}

// renderArticle renders a single {"article": ...} response.
func (h *Handlers) renderArticle(c *gin.Context, status int, a *models.Article, viewer *models.User) {
	author, err := h.users.GetByID(c.Request.Context(), a.AuthorID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(status, gin.H{"article": newArticleView(a, author, viewer)})
}

// ListArticles handles GET /api/articles with tag/author/favorited filters.
func (h *Handlers) ListArticles(c *gin.Context) {
	viewer, err := h.viewer(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	limit, offset := listWindow(c)
	list, total, err := h.articles.List(c.Request.Context(), services.ListQuery{
		Tag:         c.Query("tag"),
		Author:      c.Query("author"),
		FavoritedBy: c.Query("favorited"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderArticleList(c, list, total, viewer)
}

// Feed handles GET /api/articles/feed: articles by followed authors.
func (h *Handlers) Feed(c *gin.Context) {
	id, _ := currentUserID(c)

	viewer, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	limit, offset := listWindow(c)
	list, total, err := h.articles.Feed(c.Request.Context(), id, limit, offset)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderArticleList(c, list, total, viewer)
}

type articleRequest struct {
	Article struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

// CreateArticle handles POST /api/articles.
func (h *Handlers) CreateArticle(c *gin.Context) {
	id, _ := currentUserID(c)

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	article, err := h.articles.Create(c.Request.Context(), id,
		req.Article.Title, req.Article.Description, req.Article.Body, req.Article.TagList)
	if err != nil {
		h.renderError(c, err)
		return
	}

	viewer, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderArticle(c, http.StatusCreated, article, viewer)
}

// GetArticle handles GET /api/articles/:slug.
func (h *Handlers) GetArticle(c *gin.Context) {
	article, err := h.articles.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderArticle(c, http.StatusOK, article, viewer)
}

type updateArticleRequest struct {
	Article struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Body        *string `json:"body"`
	} `json:"article"`
}

// UpdateArticle handles PUT /api/articles/:slug; author only.
func (h *Handlers) UpdateArticle(c *gin.Context) {
	id, _ := currentUserID(c)

	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	article, err := h.articles.Update(c.Request.Context(), id, c.Param("slug"), services.ArticleUpdate{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	viewer, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderArticle(c, http.StatusOK, article, viewer)
}

// DeleteArticle handles DELETE /api/articles/:slug; author only.
func (h *Handlers) DeleteArticle(c *gin.Context) {
	id, _ := currentUserID(c)

	if err := h.articles.Delete(c.Request.Context(), id, c.Param("slug")); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FavoriteArticle handles POST /api/articles/:slug/favorite.
func (h *Handlers) FavoriteArticle(c *gin.Context) {
	id, _ := currentUserID(c)

	article, viewer, err := h.articles.Favorite(c.Request.Context(), id, c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderArticle(c, http.StatusOK, article, viewer)
}

// UnfavoriteArticle handles DELETE /api/articles/:slug/favorite.
func (h *Handlers) UnfavoriteArticle(c *gin.Context) {
	id, _ := currentUserID(c)

	article, viewer, err := h.articles.Unfavorite(c.Request.Context(), id, c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderArticle(c, http.StatusOK, article, viewer)
}

// ListTags handles GET /api/tags.
func (h *Handlers) ListTags(c *gin.Context) {
	tags, err := h.articles.Tags(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
