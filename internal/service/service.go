package service

import (
	"context"
	"time"

	"i18n_portal/internal/cache"
	"i18n_portal/internal/logger"
	"i18n_portal/internal/models"
	"i18n_portal/internal/repository"
)

type Authorization interface {
	Login(ctx context.Context, username, password string) (models.Token, error)
	ParseToken(accessToken string) (models.TokenData, error)
	CurrentUser(ctx context.Context, data models.TokenData) (*models.UserRecord, error)
	CreateUser(ctx context.Context, actor string, in models.UserCreate) (models.User, error)
}

// AdminBootstrap guarantees the privileged account exists.
type AdminBootstrap interface {
	EnsureAdmin(ctx context.Context) (AdminResult, error)
}

// I18n serves and maintains translation bundles.
type I18n interface {
	Locales(ctx context.Context) ([]string, error)
	Bundle(ctx context.Context, locale string) (models.Bundle, error)
	Negotiate(ctx context.Context, acceptLanguage string) (string, error)
	Update(ctx context.Context, actor, locale string, messages map[string]string) (models.Bundle, error)
}

// AuditLog exposes the append-only audit trail with filtering access.
type AuditLog interface {
	List(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	AdminBootstrap
	I18n
	AuditLog
}

// Options carries the settings services need from configuration.
type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	DefaultLocale string
}

func NewService(repos *repository.Repository, bundles cache.BundleCache, opts Options, log *logger.Logger) *Service {
	return &Service{
		Authorization:  NewAuthService(repos.Auth, repos.Audit, log, opts.JWTSecret, opts.TokenTTL),
		AdminBootstrap: NewAdminService(repos.Auth, repos.Audit, log, opts.AdminUsername, opts.AdminPassword),
		I18n:           NewI18nService(repos.Translations, repos.Audit, bundles, log, opts.DefaultLocale),
		AuditLog:       NewAuditLogService(repos.Audit),
	}
}

// recordAudit appends an audit event; a failed write is logged, never returned.
func recordAudit(ctx context.Context, repo repository.AuditRepo, log *logger.Logger, ev models.AuditEvent) {
	if repo == nil {
		return
	}
	if err := repo.Append(ctx, ev); err != nil && log != nil {
		log.Warnw("audit_append_failed", "type", ev.Type, "err", err)
	}
}
