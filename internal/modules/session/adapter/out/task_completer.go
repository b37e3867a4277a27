package out

import (
	"context"

	sessionout "forge/internal/modules/session/port/out"
	taskin "forge/internal/modules/task/port/in"
)

// TaskCompleter closes the loop back into the task module when a session
// finishes with a task attached.
type TaskCompleter struct {
	tasks taskin.Usecase
}

func NewTaskCompleter(tasks taskin.Usecase) sessionout.TaskCompleter {
	return &TaskCompleter{tasks: tasks}
}

func (c *TaskCompleter) MarkCompleted(ctx context.Context, taskID string) error {
	_, err := c.tasks.Complete(ctx, taskID)
	return err
}
