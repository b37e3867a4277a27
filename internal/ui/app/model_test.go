package app

import (
	"context"
	"testing"

	taskdto "forge/internal/modules/task/dto"
)

type paletteTasks struct {
	added taskdto.AddInput
}

func (p *paletteTasks) List(context.Context) ([]taskdto.TaskOutput, error) { return nil, nil }
func (p *paletteTasks) Complete(_ context.Context, id string) (taskdto.TaskOutput, error) {
	return taskdto.TaskOutput{ID: id}, nil
}
func (p *paletteTasks) Remove(context.Context, string) error { return nil }
func (p *paletteTasks) Queue(context.Context, taskdto.QueueInput) ([]taskdto.TaskOutput, error) {
	return nil, nil
}
func (p *paletteTasks) CheckProvider(context.Context) error { return nil }

func (p *paletteTasks) Add(_ context.Context, input taskdto.AddInput) (taskdto.TaskOutput, error) {
	p.added = input
	return taskdto.TaskOutput{ID: "t1", Title: input.Title}, nil
}

func TestPaletteTaskAddGrammar(t *testing.T) {
	t.Parallel()
	tasks := &paletteTasks{}
	m := Model{tasks: tasks, keys: defaultKeys()}

	_, cmd := m.executePalette("task:add Write the draft 45 high p:low")
	if cmd == nil {
		t.Fatal("task:add should produce a command")
	}
	cmd()

	if tasks.added.Title != "Write the draft" {
		t.Fatalf("title words before the minutes belong to the title, got %q", tasks.added.Title)
	}
	if tasks.added.DurationMin != 45 || tasks.added.Energy != "high" || tasks.added.Priority != "low" {
		t.Fatalf("fields parsed wrong: %+v", tasks.added)
	}
}

func TestPaletteUnknownCommand(t *testing.T) {
	t.Parallel()
	m := Model{keys: defaultKeys()}
	next, _ := m.executePalette("frobnicate now")
	if status := next.(Model).status; status != "unknown command: frobnicate" {
		t.Fatalf("unexpected status %q", status)
	}
}
