package service

import (
	"context"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// TaskService coordinates task operations for a single owner at a time.
// Callers are expected to have checked ownership of userID already.
type TaskService interface {
	CreateTask(ctx context.Context, userID string, in domain.TaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	GetTask(ctx context.Context, userID string, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID string, id int64, in domain.TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID string, id int64) error
	ToggleCompletion(ctx context.Context, userID string, id int64) (*domain.Task, error)
}

type taskService struct {
	tasks repository.TaskRepository
	now   func() time.Time
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{
		tasks: tasks,
		now:   time.Now,
	}
}

func (s *taskService) CreateTask(ctx context.Context, userID string, in domain.TaskInput) (*domain.Task, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	task := domain.NewTask(userID, in, s.now())
	if _, err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.List(ctx, userID)
}

func (s *taskService) GetTask(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	return s.tasks.Get(ctx, userID, id)
}

func (s *taskService) UpdateTask(ctx context.Context, userID string, id int64, in domain.TaskInput) (*domain.Task, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	return s.tasks.Update(ctx, userID, id, in, s.now())
}

func (s *taskService) DeleteTask(ctx context.Context, userID string, id int64) error {
	return s.tasks.Delete(ctx, userID, id)
}

func (s *taskService) ToggleCompletion(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	return s.tasks.ToggleCompleted(ctx, userID, id, s.now())
}
