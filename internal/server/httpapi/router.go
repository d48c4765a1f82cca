// Package httpapi exposes the REST surface of the server: routing, token
// middleware, request handlers, and JSON rendering.
package httpapi

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/conduit/internal/logging"
	"github.com/dmitrijs2005/conduit/internal/server/models"
	"github.com/dmitrijs2005/conduit/internal/server/services"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	logger   logging.Logger
	users    *services.UserService
	articles *services.ArticleService
	avatars  *services.AvatarService
	db       *sql.DB
}

func NewHandlers(logger logging.Logger, users *services.UserService, articles *services.ArticleService, avatars *services.AvatarService, db *sql.DB) *Handlers {
	return &Handlers{
		logger:   logger,
		users:    users,
		articles: articles,
		avatars:  avatars,
		db:       db,
	}
}

// NewRouter wires the middleware chain and all routes.
func NewRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Metrics())

	tm := h.users.Tokens()
	required := RequireAuth(tm)
	optional := OptionalAuth(tm)

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/users", h.Register)
		api.POST("/users/login", h.Login)
		api.GET("/user", required, h.CurrentUser)
		api.PUT("/user", required, h.UpdateUser)

		api.POST("/user/avatar", required, h.AvatarUploadURL)
		api.GET("/user/avatar/url", required, h.AvatarDownloadURL)

		api.GET("/profiles/:username", optional, h.GetProfile)
		api.POST("/profiles/:username/follow", required, h.Follow)
		api.DELETE("/profiles/:username/follow", required, h.Unfollow)

		api.GET("/articles", optional, h.ListArticles)
		api.GET("/articles/feed", required, h.Feed)
		api.POST("/articles", required, h.CreateArticle)
		api.GET("/articles/:slug", optional, h.GetArticle)
		api.PUT("/articles/:slug", required, h.UpdateArticle)
		api.DELETE("/articles/:slug", required, h.DeleteArticle)

		api.POST("/articles/:slug/favorite", required, h.FavoriteArticle)
		api.DELETE("/articles/:slug/favorite", required, h.UnfavoriteArticle)

		api.GET("/articles/:slug/comments", optional, h.ListComments)
		api.POST("/articles/:slug/comments", required, h.AddComment)
		api.DELETE("/articles/:slug/comments/:id", required, h.DeleteComment)

		api.GET("/tags", h.ListTags)
	}

	return router
}

// viewer loads the authenticated user, or nil for anonymous requests.
func (h *Handlers) viewer(c *gin.Context) (*models.User, error) {
	id, ok := currentUserID(c)
	if !ok {
		return nil, nil
	}
	return h.users.GetByID(c.Request.Context(), id)
}

// authorLoader memoizes author lookups while rendering article/comment
// lists, so each distinct author is fetched once.
type authorLoader struct {
	users interface {
		GetByID(ctx context.Context, id string) (*models.User, error)
	}
	cache map[string]*models.User
}

func (h *Handlers) newAuthorLoader() *authorLoader {
	return &authorLoader{users: h.users, cache: map[string]*models.User{}}
}

func (l *authorLoader) load(ctx context.Context, id string) (*models.User, error) {
	if u, ok := l.cache[id]; ok {
		return u, nil
	}
	u, err := l.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.cache[id] = u
	return u, nil
}
