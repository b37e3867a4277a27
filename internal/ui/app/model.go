package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	taskdto "forge/internal/modules/task/dto"
	"forge/internal/ui/components"
	"forge/internal/ui/theme"
	dashboardview "forge/internal/ui/views/dashboard"
	focusview "forge/internal/ui/views/focus"
	tasksview "forge/internal/ui/views/tasks"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	focusview.SessionPort
	AttentionLost(ctx context.Context)
	AttentionRegained(ctx context.Context)
	Flush(ctx context.Context) error
}

type taskPort interface {
	tasksview.TaskPort
	focusview.QueuePort
	Add(ctx context.Context, input taskdto.AddInput) (taskdto.TaskOutput, error)
	CheckProvider(ctx context.Context) error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabFocus tabID = iota
	tabTasks
	tabDashboard
	tabCount
)

var tabLabels = [tabCount]string{"Focus", "Tasks", "Dashboard"}

// ─── async messages ───────────────────────────────────────────────────────────

type taskAddedMsg struct {
	task taskdto.TaskOutput
	err  error
}

type tasksMutatedMsg struct{ err error }

type providerCheckedMsg struct{ err error }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Pause   key.Binding
	Finish  key.Binding
	Abort   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("hold f", "finish early")),
		Abort:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "abort")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Finish, k.Abort},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, terminal focus
// tracking, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering is delegated to
// sub-views.
type Model struct {
	session sessionPort
	tasks   taskPort

	focusView     focusview.Model
	tasksView     tasksview.Model
	dashboardView dashboardview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(
	session sessionPort,
	tasks taskPort,
	progression dashboardview.ProgressionPort,
	analytics dashboardview.AnalyticsPort,
	queueLimit, ritualSeconds, completionSeconds int,
) Model {
	return Model{
		session:       session,
		tasks:         tasks,
		focusView:     focusview.New(session, tasks, queueLimit, ritualSeconds, completionSeconds),
		tasksView:     tasksview.New(tasks),
		dashboardView: dashboardview.New(progression, analytics),
		activeTab:     tabFocus,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.focusView.Init(),
		m.tasksView.Init(),
		m.dashboardView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open. Session ticks still pass
	// through so an open palette never stalls a running countdown.
	if m.palette.Visible() {
		if _, isTick := msg.(focusview.TickMsg); !isTick {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.focusView, cmd = m.focusView.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	// Terminal focus tracking feeds the distraction counter: leaving the
	// terminal during a focus session is the distraction.
	case tea.BlurMsg:
		m.session.AttentionLost(context.Background())
		m.focusView, _ = m.focusView.Update(msg)
		return m, nil

	case tea.FocusMsg:
		m.session.AttentionRegained(context.Background())
		return m, nil

	case focusview.SessionDoneMsg:
		m.status = "session recorded"
		cmds = append(cmds, m.tasksView.Reload(), m.dashboardView.Reload())

	case taskAddedMsg:
		if msg.err != nil {
			m.status = "task add failed: " + msg.err.Error()
		} else {
			m.status = "task added: " + msg.task.Title
			cmds = append(cmds, m.tasksView.Reload())
		}

	case tasksMutatedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			cmds = append(cmds, m.tasksView.Reload())
		}

	case providerCheckedMsg:
		if msg.err != nil {
			m.status = "provider: " + msg.err.Error()
		} else {
			m.status = "provider ok"
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabTasks && m.tasksView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			// Quitting mid-focus aborts like any other walk-away.
			m.session.Finish(context.Background(), false)
			m.session.Flush(context.Background())
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			if m.activeTab == tabDashboard {
				cmds = append(cmds, m.dashboardView.Reload())
			}
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			if m.activeTab == tabDashboard {
				cmds = append(cmds, m.dashboardView.Reload())
			}
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view. Tick messages
	// always reach the focus view so the session keeps running while the
	// user browses other tabs.
	var tabCmd tea.Cmd
	if _, isTick := msg.(focusview.TickMsg); isTick && m.activeTab != tabFocus {
		m.focusView, tabCmd = m.focusView.Update(msg)
		cmds = append(cmds, tabCmd)
		return m, tea.Batch(cmds...)
	}
	switch m.activeTab {
	case tabFocus:
		m.focusView, tabCmd = m.focusView.Update(msg)
	case tabTasks:
		m.tasksView, tabCmd = m.tasksView.Update(msg)
	case tabDashboard:
		m.dashboardView, tabCmd = m.dashboardView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabFocus:
		return m.focusView.View()
	case tabTasks:
		return m.tasksView.View()
	case tabDashboard:
		return m.dashboardView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "forge  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	state := m.session.State(context.Background())
	if state.Phase == "focus" {
		title := state.TaskTitle
		if !state.HasTask {
			title = "freestyle"
		}
		left = theme.Hot.Render("● "+title) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	ctx := context.Background()

	switch parts[0] {
	case "task:add":
		if len(parts) < 2 {
			m.status = "usage: task:add <title> [minutes] [energy] [priority]"
			return m, nil
		}
		add := taskdto.AddInput{Title: parts[1]}
		rest := parts[2:]
		// Words before the first numeric field belong to the title.
		for len(rest) > 0 && !isEnergy(rest[0]) && !isPriority(rest[0]) {
			if _, err := strconv.Atoi(rest[0]); err == nil {
				break
			}
			add.Title += " " + rest[0]
			rest = rest[1:]
		}
		if len(rest) > 0 {
			if minutes, err := strconv.Atoi(rest[0]); err == nil {
				add.DurationMin = minutes
				rest = rest[1:]
			}
		}
		for _, word := range rest {
			if isEnergy(word) && add.Energy == "" {
				add.Energy = word
			}
			if isPriority(word) {
				add.Priority = strings.TrimPrefix(word, "p:")
			}
		}
		m.activeTab = tabTasks
		return m, m.addTaskCmd(add)

	case "task:done":
		if len(parts) < 2 {
			m.status = "usage: task:done <id>"
			return m, nil
		}
		m.activeTab = tabTasks
		return m, func() tea.Msg {
			_, err := m.tasks.Complete(ctx, parts[1])
			return tasksMutatedMsg{err: err}
		}

	case "task:rm":
		if len(parts) < 2 {
			m.status = "usage: task:rm <id>"
			return m, nil
		}
		m.activeTab = tabTasks
		return m, func() tea.Msg {
			return tasksMutatedMsg{err: m.tasks.Remove(ctx, parts[1])}
		}

	case "session:abort":
		if err := m.session.Finish(ctx, false); err != nil {
			m.status = "abort: " + err.Error()
		} else {
			m.status = "session aborted"
		}
		m.activeTab = tabFocus
		return m, nil

	case "session:pause":
		if err := m.session.Pause(ctx); err != nil {
			m.status = "pause: " + err.Error()
		}
		return m, nil

	case "session:resume":
		if err := m.session.Resume(ctx); err != nil {
			m.status = "resume: " + err.Error()
		}
		return m, nil

	case "provider:check":
		return m, m.checkProviderCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func isEnergy(s string) bool {
	return s == "low" || s == "medium" || s == "high"
}

func isPriority(s string) bool {
	// Energy and priority share the low/medium/high scale; the palette
	// grammar puts energy first, so only explicit p: prefixes disambiguate.
	return strings.HasPrefix(s, "p:")
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.focusView, _ = m.focusView.Update(sz)
	m.tasksView, _ = m.tasksView.Update(sz)
	m.dashboardView, _ = m.dashboardView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) addTaskCmd(input taskdto.AddInput) tea.Cmd {
	return func() tea.Msg {
		task, err := m.tasks.Add(context.Background(), input)
		return taskAddedMsg{task: task, err: err}
	}
}

func (m Model) checkProviderCmd() tea.Cmd {
	return func() tea.Msg {
		return providerCheckedMsg{err: m.tasks.CheckProvider(context.Background())}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
