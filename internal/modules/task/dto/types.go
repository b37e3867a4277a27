package dto

import "time"

type AddInput struct {
	Title       string
	DurationMin int
	Energy      string
	Priority    string
}

type TaskOutput struct {
	ID          string
	Title       string
	DurationMin int
	Energy      string
	Priority    string
	Status      string
	CreatedAt   time.Time
}

type QueueInput struct {
	Limit int
}
