package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

// AddComment handles POST /api/articles/:slug/comments.
func (h *Handlers) AddComment(c *gin.Context) {
	id, _ := currentUserID(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	comment, err := h.articles.AddComment(c.Request.Context(), id, c.Param("slug"), req.Comment.Body)
	if err != nil {
		h.renderError(c, err)
		return
	}

	author, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": newCommentView(comment, author, author)})
}

// ListComments handles GET /api/articles/:slug/comments.
func (h *Handlers) ListComments(c *gin.Context) {
	comments, err := h.articles.Comments(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	loader := h.newAuthorLoader()
	views := make([]commentView, 0, len(comments))
	for _, cm := range comments {
		author, err := loader.load(c.Request.Context(), cm.AuthorID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		views = append(views, newCommentView(cm, author, viewer))
	}

	c.JSON(http.StatusOK, gin.H{"comments": views})
}

// DeleteComment handles DELETE /api/articles/:slug/comments/:id; comment
// author only.
func (h *Handlers) DeleteComment(c *gin.Context) {
	id, _ := currentUserID(c)

	if err := h.articles.DeleteComment(c.Request.Context(), id, c.Param("slug"), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
