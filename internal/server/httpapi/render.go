package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dmitrijs2005/conduit/internal/common"
	"github.com/dmitrijs2005/conduit/internal/server/models"
)

// timeFormat matches the original API's ISO-8601 timestamps with
// millisecond precision.
const timeFormat = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// renderError maps service errors onto the API's status codes and the
// {"errors": {field: message}} body shape.
func (h *Handlers) renderError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		fields := gin.H{}
		for field, ferr := range verr {
			fields[field] = ferr.Error()
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fields})
		return
	}

	if dup, ok := common.IsDuplicate(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": gin.H{dup.Field: "is already taken"},
		})
		return
	}

	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": gin.H{"message": "not found"}})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"errors": gin.H{"message": "email or password is invalid"}})
	case errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"errors": gin.H{"message": "invalid or expired token"}})
	case errors.Is(err, common.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"errors": gin.H{"message": "forbidden"}})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"errors": gin.H{"message": "internal server error"}})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"body": msg}})
}

// userView is the authenticated-user payload, always carrying a token.
type userView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

func newUserView(u *models.User, token string) userView {
	return userView{
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.ImageOrDefault(),
		Token:    token,
	}
}

// profileView is a user as seen by another (possibly anonymous) user.
type profileView struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

func newProfileView(target *models.User, viewer *models.User) profileView {
	following := viewer != nil && viewer.IsFollowing(target.ID)
	return profileView{
		Username:  target.Username,
		Bio:       target.Bio,
		Image:     target.ImageOrDefault(),
		Following: following,
	}
}

type articleView struct {
	Slug           string      `json:"slug"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Body           string      `json:"body"`
	TagList        []string    `json:"tagList"`
	CreatedAt      string      `json:"createdAt"`
	UpdatedAt      string      `json:"updatedAt"`
	Favorited      bool        `json:"favorited"`
	FavoritesCount int         `json:"favoritesCount"`
	Author         profileView `json:"author"`
}

func newArticleView(a *models.Article, author *models.User, viewer *models.User) articleView {
	tags := a.TagList
	if tags == nil {
		tags = []string{}
	}
	return articleView{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      formatTime(a.CreatedAt),
		UpdatedAt:      formatTime(a.UpdatedAt),
		Favorited:      viewer != nil && viewer.IsFavorite(a.ID),
		FavoritesCount: a.FavoritesCount,
		Author:         newProfileView(author, viewer),
	}
}

type commentView struct {
	ID        string      `json:"id"`
	Body      string      `json:"body"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	Author    profileView `json:"author"`
}

func newCommentView(cm *models.Comment, author *models.User, viewer *models.User) commentView {
	return commentView{
		ID:        cm.ID,
		Body:      cm.Body,
		CreatedAt: formatTime(cm.CreatedAt),
		UpdatedAt: formatTime(cm.UpdatedAt),
		Author:    newProfileView(author, viewer),
	}
}
