package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"i18n_portal/internal/app"
	"i18n_portal/internal/config"
	"i18n_portal/internal/lifecycle"
	"i18n_portal/internal/logger"
)

// @title                       i18n portal API
// @version                     1.0
// @description                 Authentication and translation bundles.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configDir := flag.String("config", "configs", "directory containing config.yml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Errorw("failed to init application", "err", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		var se *lifecycle.StartupError
		if errors.As(err, &se) {
			log.Errorw("startup failed", "phase", se.Phase, "err", se.Err)
		} else {
			log.Errorw("server stopped with error", "err", err)
		}
		_ = log.Sync()
		os.Exit(1)
	}
}
