package usecase_test

import (
	"context"
	"testing"
	"time"

	"forge/internal/modules/analytics/usecase"
	sessiondto "forge/internal/modules/session/dto"
)

// Fixtures use the local zone: history timestamps travel as unix millis
// and come back out as local wall-clock time.
type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2026, 8, 20, 18, 0, 0, 0, time.Local)
}

type stubHistory struct {
	records []sessiondto.RecordOutput
}

func (s stubHistory) History(context.Context) []sessiondto.RecordOutput {
	return s.records
}

func record(ts time.Time, minutes int) sessiondto.RecordOutput {
	return sessiondto.RecordOutput{
		ID:          "s-" + ts.Format("20060102-1504"),
		Date:        ts.Format("2006-01-02"),
		Timestamp:   ts.UnixMilli(),
		DurationMin: minutes,
		Successful:  true,
	}
}

func TestHeatmapFromHistory(t *testing.T) {
	t.Parallel()
	morning := time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local)
	source := stubHistory{records: []sessiondto.RecordOutput{
		record(morning, 25),
		record(morning.Add(30*time.Minute), 25),
	}}
	out := usecase.New(source, fixedClock{}).Heatmap(context.Background())
	if !out.HasPeak || out.PeakMinutes != 50 || out.PeakHour != 9 {
		t.Fatalf("heatmap peak wrong: %+v", out)
	}
	if out.PeakWeekday != "Thursday" {
		t.Fatalf("expected Thursday peak, got %s", out.PeakWeekday)
	}
}

func TestTrendAndConsistencyFromHistory(t *testing.T) {
	t.Parallel()
	now := fixedClock{}.Now()
	records := []sessiondto.RecordOutput{}
	for i := 0; i < 5; i++ {
		records = append(records, record(now.AddDate(0, 0, -i), 45))
	}
	interactor := usecase.New(stubHistory{records: records}, fixedClock{})

	trend := interactor.Trend(context.Background())
	if len(trend) != 7 {
		t.Fatalf("expected 7 trend points, got %d", len(trend))
	}
	if trend[6].Minutes != 45 || trend[6].Date != "2026-08-20" {
		t.Fatalf("today's point wrong: %+v", trend[6])
	}

	consistency := interactor.Consistency(context.Background())
	if consistency.Score != 70 || consistency.WindowDays != 14 {
		t.Fatalf("consistency wrong: %+v", consistency)
	}
}

func TestEmptyHistory(t *testing.T) {
	t.Parallel()
	interactor := usecase.New(stubHistory{}, fixedClock{})
	if out := interactor.Heatmap(context.Background()); out.HasPeak {
		t.Fatalf("empty history has no peak: %+v", out)
	}
	if out := interactor.Consistency(context.Background()); out.Score != 0 {
		t.Fatalf("empty history scores zero: %+v", out)
	}
}
