package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"i18n_portal/internal/models"
	"i18n_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxTokenData   = "tokenData"
	ctxCurrentUser = "currentUser"
	ctxRequestID   = "requestId"

	requestIDHeader = "X-Request-ID"
)

// requestLogger tags each request with an id and writes one access log line.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	rid := c.GetHeader(requestIDHeader)
	if rid == "" {
		rid = uuid.NewString()
	}
	c.Set(ctxRequestID, rid)
	c.Header(requestIDHeader, rid)

	c.Next()

	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"request_id", rid,
	)
}

// tokenMiddleware requires a valid bearer token and stores its TokenData.
func (h *Handler) tokenMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		h.abortJSON(c, http.StatusUnauthorized, "missing Authorization header")
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		h.abortJSON(c, http.StatusUnauthorized, "invalid Authorization header format")
		return
	}

	data, err := h.services.ParseToken(parts[1])
	if err != nil || !data.Resolved() {
		h.abortJSON(c, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	c.Set(ctxTokenData, data)
	c.Next()
}

// adminMiddleware resolves the token's account and rejects non-admins.
func (h *Handler) adminMiddleware(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !u.IsAdmin {
		h.abortJSON(c, http.StatusForbidden, errNotEnoughRights)
		return
	}
	c.Next()
}

// currentUser loads the account behind the request token once per request.
func (h *Handler) currentUser(c *gin.Context) (*models.UserRecord, bool) {
	if v, ok := c.Get(ctxCurrentUser); ok {
		return v.(*models.UserRecord), true
	}
	data, _ := c.Get(ctxTokenData)
	td, _ := data.(models.TokenData)

	u, err := h.services.CurrentUser(c.Request.Context(), td)
	if errors.Is(err, service.ErrUserNotFound) {
		// token outlived its account
		h.abortJSON(c, http.StatusUnauthorized, errCouldNotValidate)
		return nil, false
	}
	if err != nil {
		h.respondError(c, "current_user_failed", err)
		return nil, false
	}
	c.Set(ctxCurrentUser, u)
	return u, true
}
