package service

import (
	"context"
	"errors"
	"fmt"

	"i18n_portal/internal/logger"
	"i18n_portal/internal/models"
	"i18n_portal/internal/repository"
)

var (
	ErrAdminNotConfigured = errors.New("admin username and password must be set")
	ErrAdminConflict      = errors.New("admin username belongs to a non-admin account")
)

const systemActor = "system"

// AdminResult describes what EnsureAdmin did.
type AdminResult struct {
	UserID  int
	Created bool
}

// AdminService creates the privileged account when it is missing. An
// existing admin is left untouched: its password is never reset.
type AdminService struct {
	authRepo  repository.Authorization
	auditRepo repository.AuditRepo
	log       *logger.Logger
	username  string
	password  string
}

func NewAdminService(repo repository.Authorization, audit repository.AuditRepo, log *logger.Logger, username, password string) *AdminService {
	return &AdminService{
		authRepo:  repo,
		auditRepo: audit,
		log:       log,
		username:  normalizeUsername(username),
		password:  password,
	}
}

func (s *AdminService) EnsureAdmin(ctx context.Context) (AdminResult, error) {
	if s.username == "" || s.password == "" {
		return AdminResult{}, ErrAdminNotConfigured
	}

	existing, err := s.authRepo.GetByUsername(ctx, s.username)
	if err != nil {
		return AdminResult{}, fmt.Errorf("look up admin %q: %w", s.username, err)
	}
	if existing != nil {
		return existingAdmin(existing)
	}

	hash, err := hashPassword(s.password)
	if err != nil {
		return AdminResult{}, fmt.Errorf("admin password: %w", err)
	}

	id, err := s.authRepo.Create(ctx, s.username, hash, true)
	if errors.Is(err, repository.ErrAlreadyExists) {
		// another instance won the race
		existing, err = s.authRepo.GetByUsername(ctx, s.username)
		if err != nil {
			return AdminResult{}, fmt.Errorf("look up admin %q: %w", s.username, err)
		}
		if existing == nil {
			return AdminResult{}, fmt.Errorf("admin %q vanished after conflict", s.username)
		}
		return existingAdmin(existing)
	}
	if err != nil {
		return AdminResult{}, fmt.Errorf("create admin %q: %w", s.username, err)
	}

	recordAudit(ctx, s.auditRepo, s.log, models.AuditEvent{
		Type:        models.AuditAdminBootstrap,
		Actor:       systemActor,
		Description: fmt.Sprintf("created admin account %s", s.username),
		Metadata:    map[string]any{"user_id": id},
	})
	return AdminResult{UserID: id, Created: true}, nil
}

func existingAdmin(u *models.UserRecord) (AdminResult, error) {
	if !u.IsAdmin {
		return AdminResult{}, fmt.Errorf("%w: %q", ErrAdminConflict, u.Username)
	}
	return AdminResult{UserID: u.ID}, nil
}
