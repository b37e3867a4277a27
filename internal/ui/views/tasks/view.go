package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	taskdto "forge/internal/modules/task/dto"
	"forge/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TaskPort interface {
	List(ctx context.Context) ([]taskdto.TaskOutput, error)
	Complete(ctx context.Context, id string) (taskdto.TaskOutput, error)
	Remove(ctx context.Context, id string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type TasksLoadedMsg struct {
	Tasks []taskdto.TaskOutput
	Err   error
}

type taskChangedMsg struct{ err error }

// ─── list item ───────────────────────────────────────────────────────────────

type taskItem struct {
	task taskdto.TaskOutput
}

func (i taskItem) Title() string {
	if i.task.Status == "completed" {
		return "✓ " + i.task.Title
	}
	return i.task.Title
}

func (i taskItem) Description() string {
	return fmt.Sprintf("%dm  %s energy  %s  [%s]",
		i.task.DurationMin, i.task.Energy, i.task.Priority, i.task.Status)
}

func (i taskItem) FilterValue() string { return i.task.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   TaskPort
	list   list.Model
	width  int
	height int
}

func New(port TaskPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tasks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload refetches the task list.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.port.List(context.Background())
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)

	case TasksLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Tasks — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Tasks"
		items := make([]list.Item, len(msg.Tasks))
		for i, t := range msg.Tasks {
			items[i] = taskItem{task: t}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case taskChangedMsg:
		if msg.err != nil {
			m.list.Title = "Tasks — " + msg.err.Error()
			return m, nil
		}
		cmds = append(cmds, m.Reload())

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		if item, ok := m.list.SelectedItem().(taskItem); ok {
			switch msg.String() {
			case "d":
				cmds = append(cmds, m.completeCmd(item.task.ID))
			case "x":
				cmds = append(cmds, m.removeCmd(item.task.ID))
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.list.View()
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.port.Complete(context.Background(), id)
		return taskChangedMsg{err: err}
	}
}

func (m Model) removeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return taskChangedMsg{err: m.port.Remove(context.Background(), id)}
	}
}
