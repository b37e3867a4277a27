package focus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "forge/internal/modules/session/dto"
	taskdto "forge/internal/modules/task/dto"
	"forge/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type SessionPort interface {
	SetPhase(ctx context.Context, phase string) error
	SetTask(ctx context.Context, task sessiondto.TaskInput) error
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Tick(ctx context.Context)
	Finish(ctx context.Context, successful bool) error
	Reset(ctx context.Context)
	State(ctx context.Context) sessiondto.StateOutput
}

type QueuePort interface {
	Queue(ctx context.Context, input taskdto.QueueInput) ([]taskdto.TaskOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// TickMsg is the 1 Hz heartbeat that drives the ritual countdown, the
// session timer and the completion celebration.
type TickMsg time.Time

type QueueLoadedMsg struct {
	Tasks []taskdto.TaskOutput
	Err   error
}

// SessionDoneMsg bubbles up when a session reaches the exit phase, so the
// app can refresh progression-dependent tabs.
type SessionDoneMsg struct{}

// ─── hold-to-complete ────────────────────────────────────────────────────────

// Finishing early requires holding the f key. Terminals deliver a held key
// as repeats, so the gesture is counted as repeats arriving within the gap.
const (
	holdTarget = 12
	holdGap    = 600 * time.Millisecond
)

// ─── list item ───────────────────────────────────────────────────────────────

type queueItem struct {
	task taskdto.TaskOutput
}

func (i queueItem) Title() string { return i.task.Title }
func (i queueItem) Description() string {
	return fmt.Sprintf("%dm  %s energy  %s", i.task.DurationMin, i.task.Energy, i.task.Priority)
}
func (i queueItem) FilterValue() string { return i.task.Title }

// freestyleItem starts a session without a task attached.
type freestyleItem struct{}

func (freestyleItem) Title() string       { return "Freestyle" }
func (freestyleItem) Description() string { return "no task, default duration" }
func (freestyleItem) FilterValue() string { return "freestyle" }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	session SessionPort
	queue   QueuePort

	queueLimit        int
	ritualSeconds     int
	completionSeconds int

	state      sessiondto.StateOutput
	picker     list.Model
	gauge      progress.Model
	ritualLeft int
	finaleLeft int

	holdCount int
	holdLast  time.Time

	status string
	width  int
	height int
}

func New(session SessionPort, queue QueuePort, queueLimit, ritualSeconds, completionSeconds int) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	picker := list.New(nil, delegate, 0, 0)
	picker.Title = "Pick your next focus"
	picker.Styles.Title = theme.Title
	picker.SetShowStatusBar(false)
	picker.SetFilteringEnabled(false)
	picker.SetShowHelp(false)

	gauge := progress.New(progress.WithScaledGradient("#74c7ec", "#fab387"))

	m := Model{
		session:           session,
		queue:             queue,
		queueLimit:        queueLimit,
		ritualSeconds:     ritualSeconds,
		completionSeconds: completionSeconds,
		picker:            picker,
		gauge:             gauge,
	}
	m.state = session.State(context.Background())
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	ctx := context.Background()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetSize(msg.Width, msg.Height-2)
		m.gauge.Width = min(msg.Width-10, 60)

	case QueueLoadedMsg:
		if msg.Err != nil {
			m.status = "queue: " + msg.Err.Error()
			break
		}
		items := make([]list.Item, 0, len(msg.Tasks)+1)
		for _, t := range msg.Tasks {
			items = append(items, queueItem{task: t})
		}
		items = append(items, freestyleItem{})
		cmds = append(cmds, m.picker.SetItems(items))

	case TickMsg:
		cmds = append(cmds, m.handleTick(ctx)...)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(ctx, msg)...)
	}

	if m.state.Phase == "lock-in" {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTick(ctx context.Context) []tea.Cmd {
	switch m.state.Phase {
	case "entry":
		m.ritualLeft--
		if m.ritualLeft <= 0 {
			if err := m.session.SetPhase(ctx, "lock-in"); err != nil {
				m.status = "lock-in: " + err.Error()
			}
			m.state = m.session.State(ctx)
		}
		return []tea.Cmd{m.tickCmd()}

	case "lock-in":
		// Heartbeat only: the picker waits on a key, and the same tick
		// chain carries straight into the focus countdown after Start.
		return []tea.Cmd{m.tickCmd()}

	case "focus":
		m.session.Tick(ctx)
		m.state = m.session.State(ctx)
		if m.state.Phase == "completion" {
			// The countdown ran out and the engine finalized on its own.
			m.finaleLeft = m.completionSeconds
		}
		return []tea.Cmd{m.tickCmd()}

	case "completion":
		m.finaleLeft--
		if m.finaleLeft <= 0 {
			if err := m.session.SetPhase(ctx, "exit"); err == nil {
				m.state = m.session.State(ctx)
				return []tea.Cmd{func() tea.Msg { return SessionDoneMsg{} }}
			}
		}
		return []tea.Cmd{m.tickCmd()}
	}
	return nil
}

func (m *Model) handleKey(ctx context.Context, msg tea.KeyMsg) []tea.Cmd {
	key := msg.String()

	switch m.state.Phase {
	case "idle":
		if key == "s" || key == "enter" {
			if err := m.session.SetPhase(ctx, "entry"); err != nil {
				m.status = err.Error()
				return nil
			}
			return m.beginRitual(ctx)
		}

	case "entry":
		if key == "esc" {
			m.session.Reset(ctx)
			m.state = m.session.State(ctx)
		}

	case "lock-in":
		if key == "enter" {
			switch item := m.picker.SelectedItem().(type) {
			case queueItem:
				if err := m.session.SetTask(ctx, sessiondto.TaskInput{
					ID:          item.task.ID,
					Title:       item.task.Title,
					DurationMin: item.task.DurationMin,
				}); err != nil {
					m.status = err.Error()
					return nil
				}
			case freestyleItem:
				// no task: the engine falls back to the default duration
			default:
				return nil
			}
			if err := m.session.Start(ctx); err != nil {
				m.status = "start: " + err.Error()
				return nil
			}
			m.holdCount = 0
			m.state = m.session.State(ctx)
			return nil
		}
		if key == "esc" {
			m.session.Reset(ctx)
			m.state = m.session.State(ctx)
		}

	case "focus":
		switch key {
		case "p":
			var err error
			if m.state.Timer.Active {
				err = m.session.Pause(ctx)
			} else {
				err = m.session.Resume(ctx)
			}
			if err != nil {
				m.status = err.Error()
			}
			m.state = m.session.State(ctx)
		case "a", "esc":
			if err := m.session.Finish(ctx, false); err != nil {
				m.status = err.Error()
			}
			m.state = m.session.State(ctx)
			m.holdCount = 0
		case "f":
			now := time.Now()
			if now.Sub(m.holdLast) > holdGap {
				m.holdCount = 0
			}
			m.holdCount++
			m.holdLast = now
			if m.holdCount >= holdTarget {
				m.holdCount = 0
				if err := m.session.Finish(ctx, true); err != nil {
					m.status = err.Error()
				}
				m.state = m.session.State(ctx)
				if m.state.Phase == "completion" {
					m.finaleLeft = m.completionSeconds
				}
			}
		}

	case "exit":
		switch key {
		case "enter", "s":
			if err := m.session.SetPhase(ctx, "entry"); err != nil {
				m.status = err.Error()
				return nil
			}
			return m.beginRitual(ctx)
		case "esc", "d":
			if err := m.session.SetPhase(ctx, "idle"); err != nil {
				m.status = err.Error()
			}
			m.state = m.session.State(ctx)
		}
	}
	return nil
}

// beginRitual enters the breathing countdown and kicks off both the queue
// load (so the picker is ready by lock-in) and the tick chain.
func (m *Model) beginRitual(ctx context.Context) []tea.Cmd {
	m.ritualLeft = m.ritualSeconds
	m.holdCount = 0
	m.status = ""
	m.state = m.session.State(ctx)
	return []tea.Cmd{m.loadQueueCmd(), m.tickCmd()}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var body string
	switch m.state.Phase {
	case "idle":
		body = m.viewIdle()
	case "entry":
		body = m.viewRitual()
	case "lock-in":
		return m.picker.View()
	case "focus":
		body = m.viewFocus()
	case "completion":
		body = m.viewCompletion()
	case "exit":
		body = m.viewExit()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) viewIdle() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("forge") + "\n\n")
	sb.WriteString(theme.Muted.Render("s: begin a session") + "\n")
	if m.status != "" {
		sb.WriteString("\n" + theme.Bad.Render(m.status))
	}
	return sb.String()
}

func (m Model) viewRitual() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Arrive") + "\n\n")
	sb.WriteString(theme.Hot.Render(fmt.Sprintf("%d", m.ritualLeft)) + "\n\n")
	sb.WriteString(theme.Muted.Render("breathe  ·  esc to back out"))
	return sb.String()
}

func (m Model) viewFocus() string {
	var sb strings.Builder
	title := m.state.TaskTitle
	if !m.state.HasTask {
		title = "Freestyle"
	}
	sb.WriteString(theme.Title.Render(title) + "\n\n")
	sb.WriteString(theme.Hot.Render(formatClock(m.state.Timer.TimeLeft)) + "\n\n")
	sb.WriteString(m.gauge.ViewAs(m.state.Intensity/100) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("intensity %.0f%%", m.state.Intensity)) + "\n\n")

	if !m.state.Timer.Active {
		sb.WriteString(theme.Bad.Render("paused") + "\n")
	}
	if m.state.Distractions > 0 || m.state.Pauses > 0 {
		sb.WriteString(theme.Muted.Render(
			fmt.Sprintf("distractions %d  ·  pauses %d", m.state.Distractions, m.state.Pauses)) + "\n")
	}
	if m.holdCount > 0 {
		sb.WriteString("\n" + theme.Good.Render(
			"finishing "+strings.Repeat("▰", m.holdCount)+strings.Repeat("▱", holdTarget-m.holdCount)) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("p: pause  hold f: finish  a: abort"))
	if m.status != "" {
		sb.WriteString("\n" + theme.Bad.Render(m.status))
	}
	return sb.String()
}

func (m Model) viewCompletion() string {
	var sb strings.Builder
	sb.WriteString(theme.Good.Render("Session forged") + "\n\n")
	sb.WriteString(m.gauge.ViewAs(1) + "\n")
	return sb.String()
}

func (m Model) viewExit() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Done") + "\n\n")
	sb.WriteString(theme.Muted.Render("enter: go again  ·  esc: rest"))
	return sb.String()
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) loadQueueCmd() tea.Cmd {
	limit := m.queueLimit
	return func() tea.Msg {
		tasks, err := m.queue.Queue(context.Background(), taskdto.QueueInput{Limit: limit})
		return QueueLoadedMsg{Tasks: tasks, Err: err}
	}
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
