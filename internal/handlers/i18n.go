package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type updateBundleRequest struct {
	Messages map[string]string `json:"messages" binding:"required"`
}

// @Summary      Available locales
// @Tags         i18n
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Router       /i18n/locales [get]
func (h *Handler) listLocales(c *gin.Context) {
	locales, err := h.services.Locales(c.Request.Context())
	if err != nil {
		h.respondError(c, "i18n_locales_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locales": locales})
}

// @Summary      Bundle for the negotiated locale
// @Description  Picks the best locale from ?lang= or the Accept-Language header, falling back to the default locale.
// @Tags         i18n
// @Produce      json
// @Param        lang  query     string  false  "language preference, Accept-Language syntax"
// @Success      200   {object}  models.Bundle
// @Failure      404   {object}  map[string]string
// @Router       /i18n/translations [get]
func (h *Handler) negotiatedBundle(c *gin.Context) {
	pref := c.Query("lang")
	if pref == "" {
		pref = c.GetHeader("Accept-Language")
	}

	locale, err := h.services.Negotiate(c.Request.Context(), pref)
	if err != nil {
		h.respondError(c, "i18n_negotiate_failed", err, "accept_language", pref)
		return
	}
	h.writeBundle(c, locale)
}

// @Summary      Bundle for a locale
// @Tags         i18n
// @Produce      json
// @Param        locale  path      string  true  "BCP 47 tag"
// @Success      200     {object}  models.Bundle
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /i18n/translations/{locale} [get]
func (h *Handler) getBundle(c *gin.Context) {
	h.writeBundle(c, c.Param("locale"))
}

func (h *Handler) writeBundle(c *gin.Context, locale string) {
	bundle, err := h.services.Bundle(c.Request.Context(), locale)
	if err != nil {
		h.respondError(c, "i18n_bundle_failed", err, "locale", locale)
		return
	}
	c.Header("Content-Language", bundle.Locale)
	c.JSON(http.StatusOK, bundle)
}

// @Summary      Upsert messages for a locale
// @Tags         i18n
// @Accept       json
// @Produce      json
// @Param        locale  path      string               true  "BCP 47 tag"
// @Param        input   body      updateBundleRequest  true  "messages to upsert"
// @Success      200     {object}  models.Bundle
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /i18n/translations/{locale} [put]
// @Security     BearerAuth
func (h *Handler) putBundle(c *gin.Context) {
	var input updateBundleRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	locale := c.Param("locale")
	bundle, err := h.services.Update(c.Request.Context(), actor.Username, locale, input.Messages)
	if err != nil {
		h.respondError(c, "i18n_update_failed", err, "locale", locale)
		return
	}
	h.log.Infow("i18n_updated", "locale", bundle.Locale, "actor", actor.Username, "count", len(input.Messages))
	c.JSON(http.StatusOK, bundle)
}
