package in

import (
	"context"

	"forge/internal/modules/session/dto"
)

// Usecase drives the focus-session engine. Phase strings use the wire
// names: idle, entry, lock-in, focus, completion, exit.
type Usecase interface {
	SetPhase(ctx context.Context, phase string) error
	SetTask(ctx context.Context, task dto.TaskInput) error
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Tick(ctx context.Context)
	AttentionLost(ctx context.Context)
	AttentionRegained(ctx context.Context)
	RegisterDistraction(ctx context.Context)
	Finish(ctx context.Context, successful bool) error
	Reset(ctx context.Context)

	State(ctx context.Context) dto.StateOutput
	History(ctx context.Context) []dto.RecordOutput
	Stats(ctx context.Context) dto.StatsOutput
	Badges(ctx context.Context) []dto.BadgeOutput
	Flush(ctx context.Context) error
}
