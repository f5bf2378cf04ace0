package repository

import (
	"context"

	"todo-backend/internal/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts user. It returns domain.ErrDuplicateIdentity when the
	// email is already registered; the check and the insert share one
	// transaction and the unique index on email is the final arbiter.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
