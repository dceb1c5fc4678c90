package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"i18n_portal/internal/repository/db"

	sq "github.com/Masterminds/squirrel"
)

// upsertBatchSize keeps one statement at 1500 bind parameters, well under
// SQLite's 32766 and Postgres' 65535.
const upsertBatchSize = 500

type TranslationRepository struct {
	db        *sql.DB
	sb        sq.StatementBuilderType
	batchSize int
}

func NewTranslationRepository(conn *sql.DB, dialect db.Dialect) *TranslationRepository {
	return &TranslationRepository{db: conn, sb: dialect.Builder(), batchSize: upsertBatchSize}
}

var _ TranslationRepo = (*TranslationRepository)(nil)

// Locales returns every locale that has at least one message, sorted.
func (r *TranslationRepository) Locales(ctx context.Context) ([]string, error) {
	query, args, err := r.sb.Select("locale").Distinct().
		From("translations").
		OrderBy("locale").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select locales: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select locales: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, 8)
	for rows.Next() {
		var locale string
		if err := rows.Scan(&locale); err != nil {
			return nil, fmt.Errorf("scan locale: %w", err)
		}
		out = append(out, locale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locales: %w", err)
	}
	return out, nil
}

// Messages returns key -> value for one locale. An unknown locale yields an
// empty map.
func (r *TranslationRepository) Messages(ctx context.Context, locale string) (map[string]string, error) {
	query, args, err := r.sb.Select("msg_key", "value").
		From("translations").
		Where(sq.Eq{"locale": locale}).
		OrderBy("msg_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select messages: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select messages for %q: %w", locale, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages for %q: %w", locale, err)
	}
	return out, nil
}

// Upsert writes all messages of a locale in one transaction, batchSize
// rows per statement; existing keys are overwritten.
func (r *TranslationRepository) Upsert(ctx context.Context, locale string, messages map[string]string) (err error) {
	if len(messages) == 0 {
		return nil
	}

	keys := make([]string, 0, len(messages))
	for k := range messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert translations: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for start := 0; start < len(keys); start += r.batchSize {
		batch := keys[start:min(start+r.batchSize, len(keys))]

		ins := r.sb.Insert("translations").Columns("locale", "msg_key", "value")
		for _, k := range batch {
			ins = ins.Values(locale, k, messages[k])
		}
		query, args, err := ins.
			Suffix("ON CONFLICT (locale, msg_key) DO UPDATE SET value = excluded.value").
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert translations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert translations %d-%d for %q: %w", start, start+len(batch), locale, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert translations for %q: %w", locale, err)
	}
	return nil
}
