package domain

import (
	"math"
	"time"
)

const DateLayout = "2006-01-02"

// Stats is the persisted progression ledger. It is mutated only through
// Apply at session finalization.
type Stats struct {
	TotalSessions  int    `json:"total_sessions"`
	TotalMinutes   int    `json:"total_minutes"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate string `json:"last_active_date"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
}

// SessionFacts are the per-session numbers the ledger and the badge rules
// consume. Zero values stand in for missing fields.
type SessionFacts struct {
	DurationMin      int
	AverageIntensity float64
	Interruptions    int
}

// SessionXP converts a finished session into experience points:
// duration weighted by an intensity factor.
func SessionXP(facts SessionFacts) int {
	return int(math.Floor(float64(facts.DurationMin) * facts.AverageIntensity / 10))
}

// LevelFor derives the level from total XP. The level is cached on Stats
// but recomputed from XP on every update.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// Apply folds one counted session into the ledger. The streak is keyed by
// local calendar date: a first-ever session starts at 1, a same-day repeat
// leaves it unchanged, a session on the day after the last active date
// extends it, anything else (a gap of two or more days, or clock skew that
// put the last active date in the future) resets it to 1.
func (s Stats) Apply(facts SessionFacts, today time.Time) Stats {
	s.TotalSessions++
	s.TotalMinutes += facts.DurationMin
	s.XP += SessionXP(facts)
	s.Level = LevelFor(s.XP)

	todayStr := today.Format(DateLayout)
	yesterdayStr := today.AddDate(0, 0, -1).Format(DateLayout)
	switch s.LastActiveDate {
	case "":
		s.CurrentStreak = 1
	case todayStr:
		// same-day repeat, streak unchanged
	case yesterdayStr:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	s.LastActiveDate = todayStr

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return s
}
