package out

import (
	"context"

	"forge/internal/modules/task/domain"
)

type TaskStore interface {
	Save(ctx context.Context, task domain.Task) error
	Get(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Delete(ctx context.Context, id string) error
}

// Provider is an external task source, e.g. a plugin-hosted backend.
// Implementations surface pending tasks and accept completion marks.
type Provider interface {
	ListPending(ctx context.Context) ([]domain.Task, error)
	MarkCompleted(ctx context.Context, id string) error
	Check(ctx context.Context) error
}
