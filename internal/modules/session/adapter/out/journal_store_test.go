package out_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"forge/internal/modules/session/adapter/out"
	"forge/internal/modules/session/domain"
	"forge/internal/platform/markdown"
)

func TestJournalStoreWritesFrontmatterNote(t *testing.T) {
	t.Parallel()
	store := out.NewJournalStore(t.TempDir())
	record := domain.Record{
		ID:               "abc123",
		Date:             "2026-08-20",
		Timestamp:        1766264400000,
		DurationMin:      25,
		AverageIntensity: 40.5,
		Interruptions:    2,
		TaskID:           "t1",
		TaskTitle:        "Write the Report!",
		Successful:       true,
	}
	path, err := store.Save(context.Background(), record)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(path, "2026-08-20-write-the-report-abc123.md") {
		t.Fatalf("unexpected note name: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	meta, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		t.Fatalf("note is not valid frontmatter: %v", err)
	}
	if meta["id"] != "abc123" || meta["task"] != "Write the Report!" {
		t.Fatalf("metadata wrong: %+v", meta)
	}
	if meta["duration_min"] != 25 || meta["interruptions"] != 2 {
		t.Fatalf("numeric metadata wrong: %+v", meta)
	}
	if !strings.Contains(body, "# Write the Report!") {
		t.Fatalf("body missing heading: %s", body)
	}
}

func TestJournalStoreNamesAreUniquePerSession(t *testing.T) {
	t.Parallel()
	store := out.NewJournalStore(t.TempDir())
	first := domain.Record{ID: "a", Date: "2026-08-20", TaskTitle: "same task", DurationMin: 25}
	second := domain.Record{ID: "b", Date: "2026-08-20", TaskTitle: "same task", DurationMin: 30}

	p1, err := store.Save(context.Background(), first)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := store.Save(context.Background(), second)
	if err != nil {
		t.Fatal(err)
	}
	if p1 == p2 {
		t.Fatalf("same-day repeats must not collide: %s", p1)
	}
}
