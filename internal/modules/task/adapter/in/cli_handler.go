package in

import (
	"context"

	"forge/internal/modules/task/dto"
	taskin "forge/internal/modules/task/port/in"
)

type CLIHandler struct {
	usecase taskin.Usecase
}

func NewCLIHandler(usecase taskin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, title string, durationMin int, energy, priority string) (dto.TaskOutput, error) {
	return h.usecase.Add(ctx, dto.AddInput{Title: title, DurationMin: durationMin, Energy: energy, Priority: priority})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.TaskOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.TaskOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Queue(ctx context.Context, limit int) ([]dto.TaskOutput, error) {
	return h.usecase.Queue(ctx, dto.QueueInput{Limit: limit})
}

func (h CLIHandler) Complete(ctx context.Context, id string) (dto.TaskOutput, error) {
	return h.usecase.Complete(ctx, id)
}

func (h CLIHandler) Remove(ctx context.Context, id string) error {
	return h.usecase.Remove(ctx, id)
}

func (h CLIHandler) CheckProvider(ctx context.Context) error {
	return h.usecase.CheckProvider(ctx)
}
