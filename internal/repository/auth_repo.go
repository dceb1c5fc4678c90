package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"i18n_portal/internal/models"
	"i18n_portal/internal/repository/db"

	sq "github.com/Masterminds/squirrel"
)

type UserRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewUserRepository(conn *sql.DB, dialect db.Dialect) *UserRepository {
	return &UserRepository{db: conn, sb: dialect.Builder()}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

// Create inserts a new user and returns its ID. A taken username yields
// ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string, isAdmin bool) (int, error) {
	query, args, err := r.sb.Insert("users").
		Columns("username", "password_hash", "is_admin").
		Values(username, passwordHash, isAdmin).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert user: %w", err)
	}

	var id int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %q: %w", username, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	return id, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	query, args, err := r.sb.Select("id", "username", "password_hash", "is_admin").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}

	var u models.UserRecord
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
