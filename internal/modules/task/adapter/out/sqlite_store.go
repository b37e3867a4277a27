package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"forge/internal/modules/task/domain"
	taskout "forge/internal/modules/task/port/out"
	apperrors "forge/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteTaskStore struct {
	db *sql.DB
}

func NewSQLiteTaskStore(dbPath string) (taskout.TaskStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteTaskStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteTaskStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  duration_min INTEGER NOT NULL,
  energy TEXT NOT NULL,
  priority TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

func (s *SQLiteTaskStore) Save(ctx context.Context, task domain.Task) error {
	const stmt = `
INSERT INTO tasks (id, title, duration_min, energy, priority, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  duration_min=excluded.duration_min,
  energy=excluded.energy,
  priority=excluded.priority,
  status=excluded.status,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		task.ID,
		task.Title,
		task.DurationMin,
		string(task.Energy),
		string(task.Priority),
		string(task.Status),
		task.CreatedAt.Format(timeLayout),
		task.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (s *SQLiteTaskStore) Get(ctx context.Context, id string) (domain.Task, error) {
	const query = `SELECT id, title, duration_min, energy, priority, status, created_at, updated_at FROM tasks WHERE id = ?`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return domain.Task{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *SQLiteTaskStore) List(ctx context.Context) ([]domain.Task, error) {
	const query = `SELECT id, title, duration_min, energy, priority, status, created_at, updated_at FROM tasks ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *SQLiteTaskStore) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *SQLiteTaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var task domain.Task
	var energy, priority, status, createdAt, updatedAt string
	if err := row.Scan(&task.ID, &task.Title, &task.DurationMin, &energy, &priority, &status, &createdAt, &updatedAt); err != nil {
		return domain.Task{}, err
	}
	task.Energy = domain.Energy(energy)
	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return domain.Task{}, err
	}
	updated, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	task.CreatedAt = created
	task.UpdatedAt = updated
	return task, nil
}
