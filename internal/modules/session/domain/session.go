package domain

import (
	"time"

	progression "forge/internal/modules/progression/domain"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseEntry      Phase = "entry"
	PhaseLockIn     Phase = "lock-in"
	PhaseFocus      Phase = "focus"
	PhaseCompletion Phase = "completion"
	PhaseExit       Phase = "exit"
)

const (
	// GrowthPerSecond accrues roughly 1.6% intensity per uninterrupted
	// minute, saturating at 100.
	GrowthPerSecond    = 0.027
	PausePenalty       = 3.0
	DistractionPenalty = 5.0

	DefaultDurationMin = 25
	// MinCountedMinutes is the floor below which a finished session is
	// discarded entirely, to keep accidental starts out of the ledger.
	MinCountedMinutes = 1

	PlaceholderTitle = "Focus Session"
)

// Task is the engine's view of a task record: opaque, read-only, owned by
// the task store.
type Task struct {
	ID          string
	Title       string
	DurationMin int
}

type Timer struct {
	TimeLeft        int  `json:"time_left"`
	InitialDuration int  `json:"initial_duration"`
	Active          bool `json:"active"`
}

// NewTimer initializes the countdown from a task duration in minutes,
// falling back to the default when the duration is missing or invalid.
func NewTimer(durationMin int) Timer {
	if durationMin <= 0 {
		durationMin = DefaultDurationMin
	}
	seconds := durationMin * 60
	return Timer{TimeLeft: seconds, InitialDuration: seconds}
}

// ElapsedSeconds is the focused time so far: the full duration on natural
// expiry, the consumed part on an early finish.
func (t Timer) ElapsedSeconds() int {
	return t.InitialDuration - t.TimeLeft
}

// Record is an immutable history entry. History is most-recent-first and
// append-only; the engine never mutates or deletes entries.
type Record struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	Timestamp        int64   `json:"timestamp"`
	DurationMin      int     `json:"duration"`
	AverageIntensity float64 `json:"average_intensity"`
	Interruptions    int     `json:"interruptions_count"`
	TaskID           string  `json:"task_id,omitempty"`
	TaskTitle        string  `json:"task_title"`
	Successful       bool    `json:"successful"`
}

// Snapshot is the persisted subset of engine state. Transient fields
// (phase, timer, intensity, active task) are never part of it.
type Snapshot struct {
	History []Record          `json:"history"`
	Stats   progression.Stats `json:"stats"`
	Badges  []string          `json:"badges"`
}

// Clamp keeps intensity inside [0, 100].
func Clamp(intensity float64) float64 {
	if intensity < 0 {
		return 0
	}
	if intensity > 100 {
		return 100
	}
	return intensity
}

// Grow advances intensity by one active second.
func Grow(intensity float64) float64 {
	return Clamp(intensity + GrowthPerSecond)
}

// Penalize applies a pause or distraction penalty.
func Penalize(intensity, penalty float64) float64 {
	return Clamp(intensity - penalty)
}

var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseEntry},
	PhaseEntry:      {PhaseLockIn},
	PhaseLockIn:     {PhaseFocus},
	PhaseFocus:      {PhaseCompletion, PhaseIdle},
	PhaseCompletion: {PhaseExit},
	PhaseExit:       {PhaseEntry, PhaseIdle},
}

// CanTransition reports whether the phase machine allows from -> to.
// Staying in the same phase is always allowed.
func CanTransition(from, to Phase) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Facts projects a record into the numbers the progression ledger and the
// badge rules consume.
func (r Record) Facts() progression.SessionFacts {
	return progression.SessionFacts{
		DurationMin:      r.DurationMin,
		AverageIntensity: r.AverageIntensity,
		Interruptions:    r.Interruptions,
	}
}

// Counted reports whether a finished session qualifies for history, stats
// and badge evaluation.
func (r Record) Counted() bool {
	return r.Successful && r.DurationMin > MinCountedMinutes
}

// DateOf formats a timestamp into the calendar-date key used by streaks
// and the trend aggregation.
func DateOf(ts time.Time) string {
	return ts.Format(progression.DateLayout)
}
