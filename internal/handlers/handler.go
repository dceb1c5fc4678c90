package handlers

import (
	"net/http"

	"i18n_portal/internal/config"
	"i18n_portal/internal/logger"
	"i18n_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	statusOK       = "ok"
	statusStarting = "starting"
)

// Options configures the HTTP surface around the route groups.
type Options struct {
	CORS      config.CORSConfig
	StaticDir string
	// Ready gates /health; nil means always ready.
	Ready func() bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{services: services, log: log, opts: opts}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// Routes returns the full HTTP handler: the gin router behind the CORS layer.
func (h *Handler) Routes() http.Handler {
	return NewCORS(h.opts.CORS)(h.InitRoutes())
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	if h.opts.StaticDir != "" {
		router.Static("/static", h.opts.StaticDir)
	}

	h.registerAuthRoutes(router)
	h.registerI18nRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/token", h.issueToken)
		auth.GET("/me", h.tokenMiddleware, h.me)
		auth.POST("/users", h.tokenMiddleware, h.adminMiddleware, h.createUser)
		auth.GET("/audit", h.tokenMiddleware, h.adminMiddleware, h.getAudit)
	}
}

func (h *Handler) registerI18nRoutes(r *gin.Engine) {
	i18n := r.Group("/i18n")
	{
		i18n.GET("/locales", h.listLocales)
		i18n.GET("/translations", h.negotiatedBundle)
		i18n.GET("/translations/:locale", h.getBundle)
		i18n.PUT("/translations/:locale", h.tokenMiddleware, h.adminMiddleware, h.putBundle)
		i18n.GET("/ws/:locale", h.bundleStream)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	if h.opts.Ready != nil && !h.opts.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusStarting})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
