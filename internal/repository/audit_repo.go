package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"i18n_portal/internal/models"
	"i18n_portal/internal/repository/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type AuditRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewAuditRepository(conn *sql.DB, dialect db.Dialect) *AuditRepository {
	return &AuditRepository{db: conn, sb: dialect.Builder()}
}

var _ AuditRepo = (*AuditRepository)(nil)

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *AuditRepository) Append(ctx context.Context, e models.AuditEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	query, args, err := r.sb.Insert("audit_events").
		Columns("id", "occurred_at", "type", "actor", "message", "meta").
		Values(
			e.EventID,
			e.OccurredAt.UTC().UnixMicro(),
			strings.ToUpper(strings.TrimSpace(e.Type)),
			e.Actor,
			e.Description,
			metaPtr,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit event: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit event %s: %w", e.Type, err)
	}
	return nil
}

// AuditQuery selects audit events. Zero fields do not filter; Limit 0
// returns every match.
type AuditQuery struct {
	From  time.Time // inclusive
	To    time.Time // inclusive
	Types []string
	Actor string
	Limit uint64
}

// List returns matching events newest first.
func (r *AuditRepository) List(ctx context.Context, q AuditQuery) ([]models.AuditEvent, error) {
	sel := r.sb.Select("id", "occurred_at", "type", "actor", "message", "meta").From("audit_events")
	if !q.From.IsZero() {
		sel = sel.Where(sq.GtOrEq{"occurred_at": q.From.UTC().UnixMicro()})
	}
	if !q.To.IsZero() {
		sel = sel.Where(sq.LtOrEq{"occurred_at": q.To.UTC().UnixMicro()})
	}
	if len(q.Types) > 0 {
		sel = sel.Where(sq.Eq{"type": q.Types})
	}
	if q.Actor != "" {
		sel = sel.Where(sq.Eq{"actor": q.Actor})
	}
	sel = sel.OrderBy("occurred_at DESC", "id DESC")
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select audit events: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select audit events: %w", err)
	}
	defer rows.Close()

	out := make([]models.AuditEvent, 0, q.Limit)
	for rows.Next() {
		var (
			ev      models.AuditEvent
			micros  int64
			metaStr sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &micros, &ev.Type, &ev.Actor, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.OccurredAt = time.UnixMicro(micros).UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
