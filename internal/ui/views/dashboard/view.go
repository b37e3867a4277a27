package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	analyticsdto "forge/internal/modules/analytics/dto"
	sessiondto "forge/internal/modules/session/dto"
	"forge/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type ProgressionPort interface {
	Stats(ctx context.Context) sessiondto.StatsOutput
	Badges(ctx context.Context) []sessiondto.BadgeOutput
	History(ctx context.Context) []sessiondto.RecordOutput
}

type AnalyticsPort interface {
	Heatmap(ctx context.Context) analyticsdto.HeatmapOutput
	Trend(ctx context.Context) []analyticsdto.TrendPoint
	Consistency(ctx context.Context) analyticsdto.ConsistencyOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Stats       sessiondto.StatsOutput
	Badges      []sessiondto.BadgeOutput
	History     []sessiondto.RecordOutput
	Heatmap     analyticsdto.HeatmapOutput
	Trend       []analyticsdto.TrendPoint
	Consistency analyticsdto.ConsistencyOutput
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	progression ProgressionPort
	analytics   AnalyticsPort
	view        viewport.Model
	data        LoadedMsg
	loaded      bool
	width       int
	height      int
}

func New(progression ProgressionPort, analytics AnalyticsPort) Model {
	return Model{
		progression: progression,
		analytics:   analytics,
		view:        viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload refetches every dashboard section in one command.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		return LoadedMsg{
			Stats:       m.progression.Stats(ctx),
			Badges:      m.progression.Badges(ctx),
			History:     m.progression.History(ctx),
			Heatmap:     m.analytics.Heatmap(ctx),
			Trend:       m.analytics.Trend(ctx),
			Consistency: m.analytics.Consistency(ctx),
		}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = msg.Width
		m.view.Height = msg.Height
	case LoadedMsg:
		m.data = msg
		m.loaded = true
		m.view.SetContent(m.render())
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return theme.Muted.Render("Loading dashboard…")
	}
	return m.view.View()
}

// ─── rendering ───────────────────────────────────────────────────────────────

var sparks = []rune("▁▂▃▄▅▆▇█")

func (m Model) render() string {
	var sb strings.Builder
	d := m.data

	sb.WriteString(theme.Title.Render("Progression") + "\n")
	sb.WriteString(fmt.Sprintf("  level %d  ·  %d xp\n", d.Stats.Level, d.Stats.XP))
	sb.WriteString(fmt.Sprintf("  %d sessions  ·  %d focused minutes\n",
		d.Stats.TotalSessions, d.Stats.TotalMinutes))
	streak := fmt.Sprintf("  streak %d", d.Stats.CurrentStreak)
	if d.Stats.CurrentStreak > 0 {
		streak = "  " + theme.Hot.Render(fmt.Sprintf("streak %d 🔥", d.Stats.CurrentStreak))
	}
	sb.WriteString(streak + theme.Muted.Render(fmt.Sprintf("  (best %d)", d.Stats.LongestStreak)) + "\n\n")

	sb.WriteString(theme.Title.Render("Badges") + "\n")
	for _, b := range d.Badges {
		line := fmt.Sprintf("  %s %-14s %s", b.Icon, b.Name, theme.Muted.Render(b.Description))
		if !b.Unlocked {
			line = theme.Muted.Render(fmt.Sprintf("  · %-14s %s", b.Name, b.Description))
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(theme.Title.Render("Last 7 days") + "\n")
	sb.WriteString("  " + sparkline(d.Trend) + "\n")
	for _, p := range d.Trend {
		if p.Minutes > 0 {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("  %s  %3dm  %d sessions\n",
				p.Date, p.Minutes, p.Sessions)))
		}
	}
	sb.WriteString("\n")

	sb.WriteString(theme.Title.Render("Consistency") + "\n")
	sb.WriteString(fmt.Sprintf("  %d / 100 over the last %d days\n\n",
		d.Consistency.Score, d.Consistency.WindowDays))

	sb.WriteString(theme.Title.Render("Rhythm") + "\n")
	if d.Heatmap.HasPeak {
		sb.WriteString(fmt.Sprintf("  you focus most on %ss around %02d:00 (%dm focused)\n\n",
			d.Heatmap.PeakWeekday, d.Heatmap.PeakHour, d.Heatmap.PeakMinutes))
	} else {
		sb.WriteString(theme.Muted.Render("  not enough sessions yet\n\n"))
	}

	sb.WriteString(theme.Title.Render("Recent sessions") + "\n")
	if len(d.History) == 0 {
		sb.WriteString(theme.Muted.Render("  none yet"))
	}
	for i, r := range d.History {
		if i == 10 {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s  %-24s %3dm  %3.0f%%  %d interruptions\n",
			r.Date, truncate(r.TaskTitle, 24), r.DurationMin, r.AverageIntensity, r.Interruptions))
	}
	return sb.String()
}

func sparkline(points []analyticsdto.TrendPoint) string {
	max := 1
	for _, p := range points {
		if p.Minutes > max {
			max = p.Minutes
		}
	}
	var sb strings.Builder
	for _, p := range points {
		idx := p.Minutes * (len(sparks) - 1) / max
		sb.WriteRune(sparks[idx])
	}
	return sb.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
