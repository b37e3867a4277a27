package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"forge/internal/modules/session/domain"
	sessionout "forge/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryProjector mirrors counted records into a sessions table for
// ad-hoc querying. The snapshot file stays the source of truth; replaying
// it through Upsert rebuilds the table.
type SQLiteHistoryProjector struct {
	db *sql.DB
}

func NewSQLiteHistoryProjector(dbPath string) (*SQLiteHistoryProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteHistoryProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (p *SQLiteHistoryProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL,
  timestamp INTEGER NOT NULL,
  duration_min INTEGER NOT NULL,
  average_intensity REAL NOT NULL,
  interruptions INTEGER NOT NULL,
  task_id TEXT,
  task_title TEXT NOT NULL,
  successful INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) Upsert(ctx context.Context, record domain.Record) error {
	const stmt = `
INSERT INTO sessions (id, date, timestamp, duration_min, average_intensity, interruptions, task_id, task_title, successful)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  date=excluded.date,
  timestamp=excluded.timestamp,
  duration_min=excluded.duration_min,
  average_intensity=excluded.average_intensity,
  interruptions=excluded.interruptions,
  task_id=excluded.task_id,
  task_title=excluded.task_title,
  successful=excluded.successful;
`
	successful := 0
	if record.Successful {
		successful = 1
	}
	_, err := p.db.ExecContext(ctx, stmt,
		record.ID,
		record.Date,
		record.Timestamp,
		record.DurationMin,
		record.AverageIntensity,
		record.Interruptions,
		record.TaskID,
		record.TaskTitle,
		successful,
	)
	if err != nil {
		return fmt.Errorf("project session: %w", err)
	}
	return nil
}

var _ sessionout.HistoryProjector = (*SQLiteHistoryProjector)(nil)
