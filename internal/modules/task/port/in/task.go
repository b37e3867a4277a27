package in

import (
	"context"

	"forge/internal/modules/task/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddInput) (dto.TaskOutput, error)
	List(ctx context.Context) ([]dto.TaskOutput, error)
	Get(ctx context.Context, id string) (dto.TaskOutput, error)
	Queue(ctx context.Context, input dto.QueueInput) ([]dto.TaskOutput, error)
	Complete(ctx context.Context, id string) (dto.TaskOutput, error)
	Remove(ctx context.Context, id string) error
	CheckProvider(ctx context.Context) error
}
