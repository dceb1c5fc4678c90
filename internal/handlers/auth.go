package handlers

import (
	"net/http"

	"i18n_portal/internal/models"

	"github.com/gin-gonic/gin"
)

// tokenRequest accepts JSON or form-encoded credentials.
type tokenRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// @Summary      Issue access token
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        input  body      tokenRequest  true  "credentials"
// @Success      200    {object}  models.Token
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/token [post]
func (h *Handler) issueToken(c *gin.Context) {
	var input tokenRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, "auth_login_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, token)
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

// @Summary      Create user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      models.UserCreate  true  "new account"
// @Success      201    {object}  models.User
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /auth/users [post]
// @Security     BearerAuth
func (h *Handler) createUser(c *gin.Context) {
	var input models.UserCreate
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.services.CreateUser(c.Request.Context(), actor.Username, input)
	if err != nil {
		h.respondError(c, "auth_create_user_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusCreated, user)
}
