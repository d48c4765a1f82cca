package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AvatarUploadURL handles POST /api/user/avatar: returns a storage key and
// a presigned PUT URL so the client uploads the image directly to object
// storage. The client then sets the user's image via PUT /api/user.
func (h *Handlers) AvatarUploadURL(c *gin.Context) {
	id, _ := currentUserID(c)

	key, url, err := h.avatars.UploadURL(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": gin.H{"key": key, "uploadUrl": url}})
}

// AvatarDownloadURL handles GET /api/user/avatar/url?key=...: a presigned
// GET URL for a previously uploaded avatar.
func (h *Handlers) AvatarDownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		badRequest(c, "key is required")
		return
	}

	url, err := h.avatars.DownloadURL(c.Request.Context(), key)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": gin.H{"key": key, "downloadUrl": url}})
}
