// Package postgres backs the credential store with a durable database. It is
// an optional collaborator: the service defaults to the in-memory store.
package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	"github.com/stringuers/Secure-SAAS-platform/internal/repository"
)

const uniqueViolation = "23505"

// UserStore implements port.UserStore on PostgreSQL. The unique index on
// email makes the check-then-insert atomic: the losing side of a concurrent
// duplicate registration surfaces as repository.ErrDuplicate.
type UserStore struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

// NewUserStore wires a PostgreSQL-backed credential store.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert stores a new user row.
func (s *UserStore) Insert(ctx context.Context, user domain.User) error {
	query := s.builder.Insert("users").
		Columns("id", "email", "password_hash", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.CreatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByEmail fetches a user row by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getBy(ctx, squirrel.Eq{"email": email})
}

// GetByID fetches a user row by id.
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getBy(ctx, squirrel.Eq{"id": id})
}

func (s *UserStore) getBy(ctx context.Context, pred squirrel.Eq) (*domain.User, error) {
	query := s.builder.Select("id", "email", "password_hash", "created_at").
		From("users").
		Where(pred).
		Limit(1)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	var user domain.User
	row := s.pool.QueryRow(ctx, sqlStr, args...)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &user, nil
}

var _ port.UserStore = (*UserStore)(nil)
