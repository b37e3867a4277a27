package domain_test

import (
	"testing"
	"time"

	"forge/internal/modules/progression/domain"
)

var day1 = time.Date(2026, 8, 20, 21, 0, 0, 0, time.UTC)

func counted(minutes int, intensity float64) domain.SessionFacts {
	return domain.SessionFacts{DurationMin: minutes, AverageIntensity: intensity}
}

func TestApplyFirstSessionStartsStreak(t *testing.T) {
	t.Parallel()
	stats := domain.Stats{}.Apply(counted(25, 50), day1)
	if stats.CurrentStreak != 1 || stats.LongestStreak != 1 {
		t.Fatalf("expected streak 1, got %+v", stats)
	}
	if stats.TotalSessions != 1 || stats.TotalMinutes != 25 {
		t.Fatalf("totals wrong: %+v", stats)
	}
	if stats.XP != 125 {
		t.Fatalf("expected 125 xp (25 * 50 / 10), got %d", stats.XP)
	}
	if stats.LastActiveDate != "2026-08-20" {
		t.Fatalf("last active date not set: %s", stats.LastActiveDate)
	}
}

func TestStreakContinuity(t *testing.T) {
	t.Parallel()
	stats := domain.Stats{}.Apply(counted(25, 50), day1)
	stats = stats.Apply(counted(25, 50), day1.AddDate(0, 0, 1))
	if stats.CurrentStreak != 2 {
		t.Fatalf("consecutive day should extend streak, got %d", stats.CurrentStreak)
	}
	stats = stats.Apply(counted(25, 50), day1.AddDate(0, 0, 1))
	if stats.CurrentStreak != 2 {
		t.Fatalf("same-day repeat must not double count, got %d", stats.CurrentStreak)
	}
	stats = stats.Apply(counted(25, 50), day1.AddDate(0, 0, 3))
	if stats.CurrentStreak != 1 {
		t.Fatalf("two-day gap should reset streak, got %d", stats.CurrentStreak)
	}
	if stats.LongestStreak != 2 {
		t.Fatalf("longest streak should survive reset, got %d", stats.LongestStreak)
	}
}

func TestStreakResetOnClockSkew(t *testing.T) {
	t.Parallel()
	stats := domain.Stats{}.Apply(counted(25, 50), day1.AddDate(0, 0, 5))
	stats = stats.Apply(counted(25, 50), day1)
	if stats.CurrentStreak != 1 {
		t.Fatalf("future last-active date should reset streak, got %d", stats.CurrentStreak)
	}
	if stats.LastActiveDate != "2026-08-20" {
		t.Fatalf("last active date should follow the applied day: %s", stats.LastActiveDate)
	}
}

func TestLevelForCurve(t *testing.T) {
	t.Parallel()
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{2500, 6},
		{-10, 1},
	}
	for _, tc := range cases {
		if got := domain.LevelFor(tc.xp); got != tc.want {
			t.Fatalf("LevelFor(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestSessionXPFloors(t *testing.T) {
	t.Parallel()
	if got := domain.SessionXP(counted(25, 99.9)); got != 249 {
		t.Fatalf("expected floor(25*9.99)=249, got %d", got)
	}
	if got := domain.SessionXP(domain.SessionFacts{}); got != 0 {
		t.Fatalf("zero facts should yield zero xp, got %d", got)
	}
}
