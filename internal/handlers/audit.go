package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"i18n_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// accepted audit time layouts, most specific first
var auditTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// @Summary      List audit events
// @Description  Newest first. Times accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers that whole day. 'type' may repeat or be comma separated.
// @Tags         auth
// @Produce      json
// @Param        from   query   string  false  "Start of range"  example(2026-01-01)
// @Param        to     query   string  false  "End of range"    example(2026-01-31)
// @Param        type   query   string  false  "Event types"     Enums(ADMIN_BOOTSTRAP,USER_CREATED,TRANSLATIONS_UPDATED,LOGIN_FAILED)
// @Param        actor  query   string  false  "Username that caused the event"
// @Param        limit  query   int     false  "Max events (default 100, max 1000)"
// @Success      200    {object}  map[string]interface{}  "count, events"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /auth/audit [get]
// @Security     BearerAuth
func (h *Handler) getAudit(c *gin.Context) {
	f, err := parseAuditFilter(c)
	if err != nil {
		h.abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.services.AuditLog.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, "audit_list_failed", err, "filter", f)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseAuditFilter reads the audit query string. Only syntax is checked
// here; the service validates the values.
func parseAuditFilter(c *gin.Context) (service.AuditFilter, error) {
	var f service.AuditFilter
	var err error

	if f.From, err = auditTime(c.Query("from"), false); err != nil {
		return f, fmt.Errorf("invalid 'from': %w", err)
	}
	if f.To, err = auditTime(c.Query("to"), true); err != nil {
		return f, fmt.Errorf("invalid 'to': %w", err)
	}
	for _, v := range c.QueryArray("type") {
		f.Types = append(f.Types, strings.Split(v, ",")...)
	}
	f.Actor = c.Query("actor")
	if raw := c.Query("limit"); raw != "" {
		if f.Limit, err = strconv.Atoi(raw); err != nil {
			return f, fmt.Errorf("invalid 'limit': %q is not a number", raw)
		}
	}
	return f, nil
}

// auditTime parses s in UTC. With endOfDay a date-only value is moved to
// the last nanosecond of that day.
func auditTime(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for i, layout := range auditTimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		if endOfDay && i == len(auditTimeLayouts)-1 {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
