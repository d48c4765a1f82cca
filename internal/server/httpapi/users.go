package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/conduit/internal/server/metrics"
	"github.com/dmitrijs2005/conduit/internal/server/services"
)

type registerRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// Register handles POST /api/users.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), req.User.Username, req.User.Email, req.User.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}

	metrics.TokensIssued.Inc()
	c.JSON(http.StatusCreated, gin.H{"user": newUserView(user, token)})
}

type loginRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// Login handles POST /api/users/login.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), req.User.Email, req.User.Password)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		h.renderError(c, err)
		return
	}

	metrics.TokensIssued.Inc()
	c.JSON(http.StatusOK, gin.H{"user": newUserView(user, token)})
}

// CurrentUser handles GET /api/user. The response carries a freshly issued
// token, matching the original API.
func (h *Handlers) CurrentUser(c *gin.Context) {
	id, _ := currentUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	token, err := h.users.Tokens().Issue(user.ID, user.Username)
	if err != nil {
		h.renderError(c, err)
		return
	}

	metrics.TokensIssued.Inc()
	c.JSON(http.StatusOK, gin.H{"user": newUserView(user, token)})
}

type updateUserRequest struct {
	User struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
		Password *string `json:"password"`
	} `json:"user"`
}

// UpdateUser handles PUT /api/user; absent fields are left untouched.
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, _ := currentUserID(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), id, services.ProfileUpdate{
		Username: req.User.Username,
		Email:    req.User.Email,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
		Password: req.User.Password,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	token, err := h.users.Tokens().Issue(user.ID, user.Username)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserView(user, token)})
}
