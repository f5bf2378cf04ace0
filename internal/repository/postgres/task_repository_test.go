package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"todo-backend/internal/domain"
)

func newTaskRepoWithMock(t *testing.T) (*TaskRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return &TaskRepository{db: db}, mock, db
}

var taskRowColumns = []string{"id", "user_id", "title", "description", "priority", "completed", "created_at", "updated_at"}

func TestTaskCreate_ReturnsID(t *testing.T) {
	repo, mock, db := newTaskRepoWithMock(t)
	defer db.Close()

	task := domain.NewTask("u-1", domain.TaskInput{Title: "milk"}, time.Now())
	q := `(?s)^INSERT\s+INTO\s+tasks\s*\(user_id,\s*title,\s*description,\s*priority,\s*completed,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,.*\$7\)\s*RETURNING\s+id$`
	mock.ExpectQuery(q).
		WithArgs("u-1", "milk", nil, "medium", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 7 || task.ID != 7 {
		t.Fatalf("id = %d / %d, want 7", id, task.ID)
	}
}

func TestTaskList_ScopedAndOrdered(t *testing.T) {
	repo, mock, db := newTaskRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)^SELECT\s+.+\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC$`
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(2), "u-1", "second", nil, "low", true, now, now).
			AddRow(int64(1), "u-1", "first", "desc", "high", false, now, now))

	tasks, err := repo.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 2 || !tasks[0].Completed || tasks[1].Description == nil {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestTaskGet_NotFound(t *testing.T) {
	repo, mock, db := newTaskRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs(int64(9), "u-1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	_, err := repo.Get(context.Background(), "u-1", 9)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected task not found, got %v", err)
	}
}

func TestTaskUpdate_SingleStatement(t *testing.T) {
	repo, mock, db := newTaskRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$1,\s*description\s*=\s*\$2,\s*priority\s*=\s*COALESCE\(NULLIF\(\$3,\s*''\),\s*priority\),\s*updated_at\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$5\s+AND\s+user_id\s*=\s*\$6\s+RETURNING\s+id,.*updated_at$`
	mock.ExpectQuery(q).
		WithArgs("renamed", nil, "", sqlmock.AnyArg(), int64(4), "u-1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(4), "u-1", "renamed", nil, "high", false, now, now))

	task, err := repo.Update(context.Background(), "u-1", 4, domain.TaskInput{Title: "renamed"}, now)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if task.Title != "renamed" || task.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected task: %+v", task)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskToggleCompleted_FlipsInPlace(t *testing.T) {
	repo, mock, db := newTaskRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)^UPDATE\s+tasks\s+SET\s+completed\s*=\s*NOT\s+completed,\s*updated_at\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+AND\s+user_id\s*=\s*\$3\s+RETURNING\s+id,.*updated_at$`
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), int64(5), "u-1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(5), "u-1", "milk", nil, "medium", true, now, now))

	task, err := repo.ToggleCompleted(context.Background(), "u-1", 5, now)
	if err != nil {
		t.Fatalf("ToggleCompleted error: %v", err)
	}
	if !task.Completed {
		t.Fatalf("expected completed task, got %+v", task)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskUpdateToggleAndDelete_NoRows(t *testing.T) {
	repo, mock, db := newTaskRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+tasks\s+SET\s+title`).WillReturnRows(sqlmock.NewRows(taskRowColumns))
	mock.ExpectQuery(`(?s)^UPDATE\s+tasks\s+SET\s+completed`).WillReturnRows(sqlmock.NewRows(taskRowColumns))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`).
		WithArgs(int64(3), "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if _, err := repo.Update(ctx, "u-1", 3, domain.TaskInput{Title: "x"}, time.Now()); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Update: expected not found, got %v", err)
	}
	if _, err := repo.ToggleCompleted(ctx, "u-1", 3, time.Now()); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("ToggleCompleted: expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, "u-1", 3); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Delete: expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
