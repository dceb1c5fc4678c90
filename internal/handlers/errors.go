package handlers

import (
	"errors"
	"net/http"

	"i18n_portal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInternal          = "internal server error"
	errBadCredentials    = "incorrect username or password"
	errCouldNotValidate  = "could not validate credentials"
	errNotEnoughRights   = "admin privileges required"
	errInvalidBodyPrefix = "invalid body: "
)

// statusFor maps service errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		return http.StatusUnauthorized, errBadCredentials
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, errCouldNotValidate
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrLocaleNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidLocale),
		errors.Is(err, service.ErrNoMessages),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrEmptyPassword),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrUnknownAuditType),
		errors.Is(err, service.ErrInvalidLimit):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, errInternal
	}
}

// respondError writes the mapped error and logs server-side failures with
// their detail.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code, msg := statusFor(err)
	fields := append([]interface{}{"err", err, "status", code}, kv...)
	if code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
	} else {
		h.log.Infow(logKey, fields...)
	}
	h.abortJSON(c, code, msg)
}

func (h *Handler) abortJSON(c *gin.Context, code int, msg string) {
	if code == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// bindOrBadRequest binds the body by content type and writes a 400 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		h.abortJSON(c, http.StatusBadRequest, errInvalidBodyPrefix+err.Error())
		return false
	}
	return true
}
