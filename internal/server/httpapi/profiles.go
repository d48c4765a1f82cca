package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetProfile handles GET /api/profiles/:username. Anonymous viewers see
// following=false.
func (h *Handlers) GetProfile(c *gin.Context) {
	target, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": newProfileView(target, viewer)})
}

// Follow handles POST /api/profiles/:username/follow.
func (h *Handlers) Follow(c *gin.Context) {
	id, _ := currentUserID(c)

	follower, target, err := h.users.Follow(c.Request.Context(), id, c.Param("username"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": newProfileView(target, follower)})
}

// Unfollow handles DELETE /api/profiles/:username/follow.
func (h *Handlers) Unfollow(c *gin.Context) {
	id, _ := currentUserID(c)

	follower, target, err := h.users.Unfollow(c.Request.Context(), id, c.Param("username"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": newProfileView(target, follower)})
}
