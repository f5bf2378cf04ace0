package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

const taskColumns = `id, user_id, title, description, priority, completed, created_at, updated_at`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (int64, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, priority, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		task.UserID, task.Title, nullString(task.Description), string(task.Priority),
		task.Completed, task.CreatedAt.UTC(), task.UpdatedAt.UTC()).Scan(&task.ID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return task.ID, nil
}

func (r *TaskRepository) Get(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, priority, completed, created_at, updated_at
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTask(row)
}

func (r *TaskRepository) List(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, priority, completed, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, userID string, id int64, in domain.TaskInput, now time.Time) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, priority = COALESCE(NULLIF($3, ''), priority), updated_at = $4
		 WHERE id = $5 AND user_id = $6
		 RETURNING `+taskColumns,
		in.Title, nullString(in.Description), string(in.Priority), now.UTC(), id, userID)
	return scanTask(row)
}

func (r *TaskRepository) ToggleCompleted(ctx context.Context, userID string, id int64, now time.Time) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET completed = NOT completed, updated_at = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+taskColumns,
		now.UTC(), id, userID)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		priority    string
	)
	err := scanner.Scan(&task.ID, &task.UserID, &task.Title, &description, &priority,
		&task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if description.Valid {
		task.Description = &description.String
	}
	task.Priority = domain.Priority(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
