package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-backend/internal/dbx"
	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

const selectTaskColumns = `
SELECT id, user_id, title, description, priority, completed, created_at, updated_at
FROM tasks`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (user_id, title, description, priority, completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.UserID,
		task.Title,
		nullString(task.Description),
		string(task.Priority),
		task.Completed,
		task.CreatedAt.UTC(),
		task.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	task.ID = id
	return id, nil
}

func (r *TaskRepository) Get(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	return getTask(ctx, r.db, userID, id)
}

func (r *TaskRepository) List(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTaskColumns+`
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
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

	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, userID string, id int64, in domain.TaskInput, now time.Time) (*domain.Task, error) {
	return r.updateAndGet(ctx, userID, id, `
UPDATE tasks
SET title=?, description=?, priority=COALESCE(NULLIF(?, ''), priority), updated_at=?
WHERE id=? AND user_id=?`,
		in.Title,
		nullString(in.Description),
		string(in.Priority),
		now.UTC(),
		id,
		userID,
	)
}

func (r *TaskRepository) ToggleCompleted(ctx context.Context, userID string, id int64, now time.Time) (*domain.Task, error) {
	return r.updateAndGet(ctx, userID, id, `
UPDATE tasks
SET completed = NOT completed, updated_at=?
WHERE id=? AND user_id=?`,
		now.UTC(),
		id,
		userID,
	)
}

// updateAndGet runs a single-row UPDATE and reads the row back in the same
// transaction.
func (r *TaskRepository) updateAndGet(ctx context.Context, userID string, id int64, query string, args ...any) (*domain.Task, error) {
	var task *domain.Task
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return err
		}
		task, err = getTask(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOneRow(res)
}

func getTask(ctx context.Context, q dbx.DBTX, userID string, id int64) (*domain.Task, error) {
	row := q.QueryRowContext(ctx, selectTaskColumns+`
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanTask(row)
}

func expectOneRow(res sql.Result) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task rows affected: %w", err)
	}
	if aff == 0 {
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
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := scanner.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&priority,
		&task.Completed,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.Priority = domain.Priority(priority)
	task.CreatedAt = createdAt.UTC()
	task.UpdatedAt = updatedAt.UTC()
	return &task, nil
}
