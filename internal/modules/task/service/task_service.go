package service

import (
	"context"
	"fmt"
	"strings"

	"forge/internal/modules/task/domain"
	taskout "forge/internal/modules/task/port/out"
	"forge/internal/platform/clock"
	"forge/internal/platform/id"
)

type TaskService struct {
	clock clock.Clock
	idGen id.Generator
	store taskout.TaskStore
}

func NewTaskService(clock clock.Clock, idGen id.Generator, store taskout.TaskStore) *TaskService {
	return &TaskService{clock: clock, idGen: idGen, store: store}
}

func (s *TaskService) Add(ctx context.Context, title string, durationMin int, energy domain.Energy, priority domain.Priority) (domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Task{}, fmt.Errorf("title is required")
	}
	if energy == "" {
		energy = domain.EnergyMedium
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}
	now := s.clock.Now()
	task := domain.Task{
		ID:          s.idGen.New(),
		Title:       title,
		DurationMin: durationMin,
		Energy:      energy,
		Priority:    priority,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return domain.Task{}, err
	}
	if err := s.store.Save(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.store.List(ctx)
}

func (s *TaskService) Get(ctx context.Context, taskID string) (domain.Task, error) {
	if strings.TrimSpace(taskID) == "" {
		return domain.Task{}, fmt.Errorf("task id is required")
	}
	return s.store.Get(ctx, taskID)
}

func (s *TaskService) Queue(ctx context.Context, limit int) ([]domain.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildQueue(tasks, limit), nil
}

func (s *TaskService) Complete(ctx context.Context, taskID string) (domain.Task, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if task.Status == domain.StatusCompleted {
		return task, nil
	}
	if err := s.store.UpdateStatus(ctx, taskID, domain.StatusCompleted); err != nil {
		return domain.Task{}, err
	}
	task.Status = domain.StatusCompleted
	task.UpdatedAt = s.clock.Now()
	return task, nil
}

func (s *TaskService) Remove(ctx context.Context, taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return fmt.Errorf("task id is required")
	}
	return s.store.Delete(ctx, taskID)
}
