package handlers

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"time"

	"i18n_portal/internal/models"
	"i18n_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms

	msgTypeBundle = "bundle"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// bundleWatcher remembers the last bundle sent so only changes go out.
type bundleWatcher struct {
	locale string
	sent   bool
	last   map[string]string
}

// @Summary      Stream a locale bundle
// @Description  WebSocket. Sends the bundle on connect and again whenever it changes. Poll rate via ?interval=2s or ?interval_ms=2000 (max 10s).
// @Tags         i18n
// @Param        locale       path   string  true   "BCP 47 tag"
// @Param        interval     query  string  false  "poll interval, Go duration"
// @Param        interval_ms  query  int     false  "poll interval in milliseconds"
// @Failure      400  {object}  map[string]string
// @Router       /i18n/ws/{locale} [get]
func (h *Handler) bundleStream(c *gin.Context) {
	locale, err := service.CanonicalLocale(c.Param("locale"))
	if err != nil {
		h.abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	interval := h.parseInterval(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	w := &bundleWatcher{locale: locale}
	if err := h.sendBundle(ctx, conn, w); err != nil {
		h.log.Infow("ws_write_failed_initial", "locale", locale, "err", err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := h.sendBundle(ctx, conn, w); err != nil {
				h.log.Infow("ws_write_failed", "locale", locale, "err", err)
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// Helper: sendBundle resolves the bundle and writes it when it differs from
// the last one sent. A locale without messages streams as an empty bundle.
func (h *Handler) sendBundle(ctx context.Context, conn *websocket.Conn, w *bundleWatcher) error {
	b, err := h.services.Bundle(ctx, w.locale)
	if errors.Is(err, service.ErrLocaleNotFound) {
		b, err = models.Bundle{Locale: w.locale, Messages: map[string]string{}}, nil
	}
	if err != nil {
		h.log.Errorw("ws_get_bundle_failed", "locale", w.locale, "err", err)
		return err
	}
	if w.sent && maps.Equal(w.last, b.Messages) {
		return nil
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: msgTypeBundle, Data: b}); err != nil {
		return err
	}
	w.sent = true
	w.last = b.Messages
	return nil
}
