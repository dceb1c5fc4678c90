// Package app assembles the application from configuration: store,
// repositories, services, HTTP layer and lifecycle manager.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"i18n_portal/docs"
	"i18n_portal/internal/cache"
	"i18n_portal/internal/config"
	"i18n_portal/internal/handlers"
	"i18n_portal/internal/lifecycle"
	"i18n_portal/internal/logger"
	"i18n_portal/internal/repository"
	"i18n_portal/internal/repository/db"
	"i18n_portal/internal/server"
	"i18n_portal/internal/service"
)

// App holds everything that lives for the duration of the process.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	DB        *sql.DB
	Repos     *repository.Repository
	Services  *service.Service
	Handler   *handlers.Handler
	Lifecycle *lifecycle.Manager

	bundles cache.BundleCache
	server  *server.Server
}

// New wires the application. It does not touch the store; that happens in
// the startup phase of Run.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}

	conn, dialect, err := db.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	bundles, err := newBundleCache(ctx, cfg.Redis, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	repos := repository.NewRepository(conn, dialect)
	services := service.NewService(repos, bundles, service.Options{
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
		DefaultLocale: cfg.I18n.DefaultLocale,
	}, log)

	a := &App{
		Config:   cfg,
		Log:      log,
		DB:       conn,
		Repos:    repos,
		Services: services,
		bundles:  bundles,
	}

	schema := db.NewSchema(conn, dialect)
	a.Lifecycle = lifecycle.NewManager(log,
		lifecycle.ReconcileFunc(func(ctx context.Context) (lifecycle.Result, error) {
			res, err := schema.Ensure(ctx)
			return lifecycle.Result{Changed: res.Changed(), Detail: describeTables(res.Created)}, err
		}),
		lifecycle.ReconcileFunc(func(ctx context.Context) (lifecycle.Result, error) {
			res, err := services.EnsureAdmin(ctx)
			detail := "admin present"
			if res.Created {
				detail = "admin created"
			}
			return lifecycle.Result{Changed: res.Created, Detail: detail}, err
		}),
	)

	a.Handler = handlers.NewHandler(services, log, handlers.Options{
		CORS:      cfg.CORS,
		StaticDir: cfg.Static.Dir,
		Ready:     a.Lifecycle.Ready,
	})

	docs.SwaggerInfo.Title = cfg.App.Title
	docs.SwaggerInfo.Description = cfg.App.Description
	docs.SwaggerInfo.Version = cfg.App.Version

	a.server = server.New(cfg.Server.Port, a.Handler.Routes(), cfg.Server.ShutdownTimeout)
	return a, nil
}

func newBundleCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (cache.BundleCache, error) {
	if cfg.URL == "" {
		return cache.NewMemory(), nil
	}
	r, err := cache.NewRedis(ctx, cfg.URL, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Infow("bundle cache backed by redis")
	return r, nil
}

func describeTables(created []string) string {
	if len(created) == 0 {
		return "all tables present"
	}
	return "created " + strings.Join(created, ", ")
}

// Run executes the full lifecycle: startup, then serving until ctx is done,
// then shutdown. Resources are released before it returns.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	return a.Lifecycle.Run(ctx, func(ctx context.Context) error {
		a.Log.Infow("http server listening", "addr", a.server.Addr())
		return a.server.Serve(ctx)
	})
}

// Close releases the store and the cache.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.bundles.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
