package service

import "time"

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// AuditFilter narrows the audit trail. Zero values mean no constraint;
// Limit 0 selects defaultAuditLimit.
type AuditFilter struct {
	From  time.Time // inclusive
	To    time.Time // inclusive
	Types []string  // any of models.AuditTypes, case-insensitive
	Actor string
	Limit int
}
