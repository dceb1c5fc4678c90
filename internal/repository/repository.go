package repository

import (
	"context"
	"database/sql"
	"errors"

	"i18n_portal/internal/models"
	"i18n_portal/internal/repository/db"
)

// ErrAlreadyExists is returned when a unique constraint rejects a write.
var ErrAlreadyExists = errors.New("already exists")

type Authorization interface {
	Create(ctx context.Context, username, passwordHash string, isAdmin bool) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.UserRecord, error)
}

type TranslationRepo interface {
	Locales(ctx context.Context) ([]string, error)
	Messages(ctx context.Context, locale string) (map[string]string, error)
	Upsert(ctx context.Context, locale string, messages map[string]string) error
}

type AuditRepo interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, q AuditQuery) ([]models.AuditEvent, error)
}

type Repository struct {
	Auth         Authorization
	Translations TranslationRepo
	Audit        AuditRepo
}

func NewRepository(conn *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{
		Auth:         NewUserRepository(conn, dialect),
		Translations: NewTranslationRepository(conn, dialect),
		Audit:        NewAuditRepository(conn, dialect),
	}
}
