package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /healthz: a database ping.
func (h *Handlers) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
