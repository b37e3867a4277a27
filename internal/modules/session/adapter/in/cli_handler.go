package in

import (
	"context"

	"forge/internal/modules/session/dto"
	sessionin "forge/internal/modules/session/port/in"
	"forge/internal/platform/clock"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Run drives one headless session from start to finalization: one engine
// tick per ticker beat until the countdown finishes the session on its
// own. Cancelling the context aborts and discards the session.
func (h CLIHandler) Run(ctx context.Context, task dto.TaskInput, ticker clock.Ticker) (dto.StateOutput, error) {
	if err := h.usecase.SetPhase(ctx, "entry"); err != nil {
		return dto.StateOutput{}, err
	}
	if task.Title != "" {
		if err := h.usecase.SetTask(ctx, task); err != nil {
			return dto.StateOutput{}, err
		}
	}
	if err := h.usecase.SetPhase(ctx, "lock-in"); err != nil {
		return dto.StateOutput{}, err
	}
	if err := h.usecase.Start(ctx); err != nil {
		return dto.StateOutput{}, err
	}
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := h.usecase.Finish(context.Background(), false); err != nil {
				return dto.StateOutput{}, err
			}
			return h.usecase.State(context.Background()), ctx.Err()
		case <-ticker.C():
			h.usecase.Tick(ctx)
			if state := h.usecase.State(ctx); state.Phase != "focus" {
				return state, nil
			}
		}
	}
}

func (h CLIHandler) History(ctx context.Context) []dto.RecordOutput {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Stats(ctx context.Context) dto.StatsOutput {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) Badges(ctx context.Context) []dto.BadgeOutput {
	return h.usecase.Badges(ctx)
}
