package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"i18n_portal/internal/models"
	"i18n_portal/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must not be after to")
	ErrUnknownAuditType = errors.New("unknown audit event type")
	ErrInvalidLimit     = fmt.Errorf("limit must be between 0 and %d", maxAuditLimit)
)

// AuditLogService reads the audit trail newest first.
type AuditLogService struct {
	auditRepo repository.AuditRepo
}

func NewAuditLogService(auditRepo repository.AuditRepo) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo}
}

func (s *AuditLogService) List(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error) {
	q, err := auditQuery(f)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.List(ctx, q)
}

// auditQuery validates f and converts it to a repository query with UTC
// bounds, canonical type names and a bounded limit.
func auditQuery(f AuditFilter) (repository.AuditQuery, error) {
	q := repository.AuditQuery{Actor: normalizeUsername(f.Actor)}
	if !f.From.IsZero() {
		q.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		q.To = f.To.UTC()
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.AuditQuery{}, ErrInvalidTimeRange
	}

	for _, t := range f.Types {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || slices.Contains(q.Types, t) {
			continue
		}
		if !models.IsAuditType(t) {
			return repository.AuditQuery{}, fmt.Errorf("%w: %q", ErrUnknownAuditType, t)
		}
		q.Types = append(q.Types, t)
	}

	switch {
	case f.Limit < 0 || f.Limit > maxAuditLimit:
		return repository.AuditQuery{}, ErrInvalidLimit
	case f.Limit == 0:
		q.Limit = defaultAuditLimit
	default:
		q.Limit = uint64(f.Limit)
	}
	return q, nil
}
