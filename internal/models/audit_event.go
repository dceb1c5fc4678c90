package models

import (
	"slices"
	"time"
)

const (
	AuditAdminBootstrap     = "ADMIN_BOOTSTRAP"
	AuditUserCreated        = "USER_CREATED"
	AuditTranslationsUpdate = "TRANSLATIONS_UPDATED"
	AuditLoginFailed        = "LOGIN_FAILED"
)

// AuditTypes lists every event type the application records.
var AuditTypes = []string{AuditAdminBootstrap, AuditUserCreated, AuditTranslationsUpdate, AuditLoginFailed}

func IsAuditType(t string) bool {
	return slices.Contains(AuditTypes, t)
}

// AuditEvent is a single audit log entry.
type AuditEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`  // one of AuditTypes
	Actor       string    `json:"actor"` // username that caused the event, "system" for startup
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
