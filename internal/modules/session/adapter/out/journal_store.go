package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"forge/internal/modules/session/domain"
	sessionout "forge/internal/modules/session/port/out"
	"forge/internal/platform/markdown"
	"forge/internal/platform/slug"
)

// JournalStore renders one markdown note per counted session into the
// journal directory, named <date>-<slug>-<id>.md to stay unique across
// same-day repeats of the same task.
type JournalStore struct {
	dir string
}

func NewJournalStore(dir string) sessionout.JournalStore {
	return &JournalStore{dir: dir}
}

func (s *JournalStore) Save(_ context.Context, record domain.Record) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}

	meta := map[string]any{
		"id":                record.ID,
		"date":              record.Date,
		"task":              record.TaskTitle,
		"duration_min":      record.DurationMin,
		"average_intensity": record.AverageIntensity,
		"interruptions":     record.Interruptions,
	}
	if record.TaskID != "" {
		meta["task_id"] = record.TaskID
	}

	body := fmt.Sprintf("# %s\n\n%s of focus at %s, finished %s.\n",
		record.TaskTitle,
		formatMinutes(record.DurationMin),
		formatIntensity(record.AverageIntensity),
		time.UnixMilli(record.Timestamp).Format("15:04"),
	)
	content, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s-%s.md", record.Date, slug.Make(record.TaskTitle), record.ID)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func formatMinutes(min int) string {
	if min == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", min)
}

func formatIntensity(intensity float64) string {
	return fmt.Sprintf("%.0f%% intensity", intensity)
}
