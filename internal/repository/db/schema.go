package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Table is one persisted entity and the statements that create it.
type Table struct {
	Name       string
	Statements []string
}

// SchemaResult lists the tables a reconciliation had to create.
type SchemaResult struct {
	Created []string
}

// Changed reports whether the store was modified.
func (r SchemaResult) Changed() bool { return len(r.Created) > 0 }

// Schema materializes the declared tables in the backing store.
type Schema struct {
	db      *sql.DB
	dialect Dialect
	tables  []Table
}

func NewSchema(db *sql.DB, dialect Dialect) *Schema {
	return &Schema{db: db, dialect: dialect, tables: Tables(dialect)}
}

// Tables returns the declared tables for a dialect, in creation order.
func Tables(d Dialect) []Table {
	if d == Postgres {
		return []Table{
			{Name: "users", Statements: []string{schemaUsersPostgres}},
			{Name: "translations", Statements: []string{schemaTranslations}},
			{Name: "audit_events", Statements: []string{schemaAuditEventsPostgres, indexAuditEventsOccurredAt}},
		}
	}
	return []Table{
		{Name: "users", Statements: []string{schemaUsersSQLite}},
		{Name: "translations", Statements: []string{schemaTranslations}},
		{Name: "audit_events", Statements: []string{schemaAuditEventsSQLite, indexAuditEventsOccurredAt}},
	}
}

const schemaUsersSQLite = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const schemaUsersPostgres = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const schemaTranslations = `
CREATE TABLE IF NOT EXISTS translations (
    locale TEXT NOT NULL,
    msg_key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (locale, msg_key)
);
`

// occurred_at holds unix microseconds so range filters behave the same on both dialects.
const schemaAuditEventsSQLite = `
CREATE TABLE IF NOT EXISTS audit_events (
    id TEXT PRIMARY KEY,
    occurred_at INTEGER NOT NULL,
    type TEXT NOT NULL,
    actor TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaAuditEventsPostgres = `
CREATE TABLE IF NOT EXISTS audit_events (
    id TEXT PRIMARY KEY,
    occurred_at BIGINT NOT NULL,
    type TEXT NOT NULL,
    actor TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const indexAuditEventsOccurredAt = `CREATE INDEX IF NOT EXISTS idx_audit_events_occurred_at ON audit_events (occurred_at);`

// Ensure creates every missing table. Running it against an up-to-date
// store executes no DDL and reports nothing created.
func (s *Schema) Ensure(ctx context.Context) (SchemaResult, error) {
	// Fail fast if the DB cannot be reached
	if err := s.db.PingContext(ctx); err != nil {
		return SchemaResult{}, fmt.Errorf("ping %s: %w", s.dialect, err)
	}

	var missing []Table
	for _, t := range s.tables {
		ok, err := s.tableExists(ctx, t.Name)
		if err != nil {
			return SchemaResult{}, err
		}
		if !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return SchemaResult{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SchemaResult{}, fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	res := SchemaResult{Created: make([]string, 0, len(missing))}
	for _, t := range missing {
		for i, stmt := range t.Statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return SchemaResult{}, fmt.Errorf("apply schema for %s (statement %d): %w", t.Name, i+1, err)
			}
		}
		res.Created = append(res.Created, t.Name)
	}

	if err := tx.Commit(); err != nil {
		return SchemaResult{}, fmt.Errorf("commit schema transaction: %w", err)
	}
	return res, nil
}

func (s *Schema) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.tableExistsSQL(), name).Scan(&n); err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}
