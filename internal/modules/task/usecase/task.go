package usecase

import (
	"context"

	"forge/internal/modules/task/domain"
	"forge/internal/modules/task/dto"
	taskin "forge/internal/modules/task/port/in"
	taskout "forge/internal/modules/task/port/out"
	"forge/internal/modules/task/service"
	apperrors "forge/internal/platform/errors"
)

type Interactor struct {
	svc      *service.TaskService
	provider taskout.Provider
}

// NewInteractor wires the local store service and an optional external
// provider. When a provider is configured, the lock-in queue and completion
// marks route to it; add/list/remove always stay local.
func NewInteractor(svc *service.TaskService, provider taskout.Provider) taskin.Usecase {
	return &Interactor{svc: svc, provider: provider}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.TaskOutput, error) {
	task, err := i.svc.Add(ctx, input.Title, input.DurationMin, domain.Energy(input.Energy), domain.Priority(input.Priority))
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.TaskOutput, error) {
	tasks, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(tasks), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.TaskOutput, error) {
	task, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) Queue(ctx context.Context, input dto.QueueInput) ([]dto.TaskOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultQueueLimit
	}
	if i.provider != nil {
		pending, err := i.provider.ListPending(ctx)
		if err != nil {
			return nil, err
		}
		return toOutputs(domain.BuildQueue(pending, limit)), nil
	}
	tasks, err := i.svc.Queue(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toOutputs(tasks), nil
}

func (i *Interactor) Complete(ctx context.Context, id string) (dto.TaskOutput, error) {
	if i.provider != nil {
		if err := i.provider.MarkCompleted(ctx, id); err != nil {
			return dto.TaskOutput{}, err
		}
		return dto.TaskOutput{ID: id, Status: string(domain.StatusCompleted)}, nil
	}
	task, err := i.svc.Complete(ctx, id)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) Remove(ctx context.Context, id string) error {
	return i.svc.Remove(ctx, id)
}

func (i *Interactor) CheckProvider(ctx context.Context) error {
	if i.provider == nil {
		return apperrors.ErrNoProvider
	}
	return i.provider.Check(ctx)
}

func toOutput(task domain.Task) dto.TaskOutput {
	return dto.TaskOutput{
		ID:          task.ID,
		Title:       task.Title,
		DurationMin: task.DurationMin,
		Energy:      string(task.Energy),
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
	}
}

func toOutputs(tasks []domain.Task) []dto.TaskOutput {
	out := make([]dto.TaskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toOutput(t))
	}
	return out
}
