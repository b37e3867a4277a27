package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type Task struct {
	ID          string
	Title       string
	DurationMin int
	Energy      Energy
	Priority    Priority
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	default:
		return fmt.Errorf("unsupported priority %q", string(p))
	}
}

// Rank orders priorities for queue building, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (e Energy) Validate() error {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return nil
	default:
		return fmt.Errorf("unsupported energy %q", string(e))
	}
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusCompleted:
		return nil
	default:
		return fmt.Errorf("unsupported status %q", string(s))
	}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if t.DurationMin < 0 {
		return fmt.Errorf("duration must be non-negative")
	}
	if err := t.Energy.Validate(); err != nil {
		return err
	}
	if err := t.Priority.Validate(); err != nil {
		return err
	}
	return t.Status.Validate()
}

// DefaultQueueLimit caps the lock-in working set when no limit is given.
const DefaultQueueLimit = 5

// BuildQueue selects the lock-in working set: pending tasks ordered by
// priority (high first), oldest first within a priority, bounded to limit.
func BuildQueue(tasks []Task, limit int) []Task {
	queue := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == StatusPending {
			queue = append(queue, t)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Priority.Rank() != queue[j].Priority.Rank() {
			return queue[i].Priority.Rank() > queue[j].Priority.Rank()
		}
		return queue[i].CreatedAt.Before(queue[j].CreatedAt)
	})
	if limit > 0 && len(queue) > limit {
		queue = queue[:limit]
	}
	return queue
}
