package repository

import (
	"context"
	"time"

	"todo-backend/internal/domain"
)

// TaskRepository exposes persistence operations for tasks. Every lookup is
// scoped by owner; a task belonging to someone else reads as not found.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (int64, error)
	Get(ctx context.Context, userID string, id int64) (*domain.Task, error)
	List(ctx context.Context, userID string) ([]domain.Task, error)
	// Update replaces title and description, and priority when in.Priority
	// is set, in a single statement. in is expected to be normalized.
	Update(ctx context.Context, userID string, id int64, in domain.TaskInput, now time.Time) (*domain.Task, error)
	// ToggleCompleted flips the completion flag in place, so concurrent
	// toggles never lose a flip.
	ToggleCompleted(ctx context.Context, userID string, id int64, now time.Time) (*domain.Task, error)
	Delete(ctx context.Context, userID string, id int64) error
}
