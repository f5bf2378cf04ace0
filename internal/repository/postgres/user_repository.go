package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-backend/internal/dbx"
	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
			user.Email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists {
			return domain.ErrDuplicateIdentity
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			user.ID, user.Email, user.PasswordHash, nullString(user.Name),
			user.CreatedAt.UTC(), user.UpdatedAt.UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateIdentity.WithCause(err)
			}
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at FROM users
		 WHERE email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at FROM users
		 WHERE id = $1`, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user domain.User
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if name.Valid {
		user.Name = &name.String
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}
