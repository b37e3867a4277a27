package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"forge/internal/bootstrap"
	sessiondto "forge/internal/modules/session/dto"
	"forge/internal/platform/clock"
	"forge/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "forge",
		Short:         "Deep-focus session forge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default ~/.forge)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newTaskCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newBadgesCmd(&dataDir))
	root.AddCommand(newAnalyticsCmd(&dataDir))
	root.AddCommand(newProviderCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the forge terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newTaskCmd(dataDir *string) *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage the task list"}

	var durationMin int
	var energy, priority string

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TaskCLI.Add(context.Background(),
				strings.Join(args, " "), durationMin, energy, priority)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) %dm %s %s\n",
				out.Title, out.ID, out.DurationMin, out.Energy, out.Priority)
			return nil
		},
	}
	addCmd.Flags().IntVar(&durationMin, "minutes", 0, "estimated duration in minutes")
	addCmd.Flags().StringVar(&energy, "energy", "", "energy: low|medium|high")
	addCmd.Flags().StringVar(&priority, "priority", "", "priority: low|medium|high")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			tasks, err := app.TaskCLI.List(context.Background())
			if err != nil {
				return err
			}
			for _, t := range tasks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-32s %3dm  %-6s %-6s %s\n",
					t.ID, t.Title, t.DurationMin, t.Energy, t.Priority, t.Status)
			}
			return nil
		},
	}

	var queueLimit int
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the prioritized focus queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			limit := queueLimit
			if limit == 0 {
				limit = app.Config.QueueLimit
			}
			tasks, err := app.TaskCLI.Queue(context.Background(), limit)
			if err != nil {
				return err
			}
			for i, t := range tasks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. %s  %-32s %3dm  %s\n",
					i+1, t.ID, t.Title, t.DurationMin, t.Priority)
			}
			return nil
		},
	}
	queueCmd.Flags().IntVar(&queueLimit, "limit", 0, "queue size (default from config)")

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TaskCLI.Complete(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed %s\n", out.Title)
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.TaskCLI.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}

	task.AddCommand(addCmd, listCmd, queueCmd, doneCmd, rmCmd)
	return task
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Run and inspect focus sessions"}

	var taskID string
	var minutes int
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one headless focus session (ctrl+c aborts)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}

			input := sessiondto.TaskInput{DurationMin: minutes}
			if taskID != "" {
				task, err := app.TaskCLI.Get(context.Background(), taskID)
				if err != nil {
					return err
				}
				input = sessiondto.TaskInput{ID: task.ID, Title: task.Title, DurationMin: task.DurationMin}
				if minutes > 0 {
					input.DurationMin = minutes
				}
			} else if minutes > 0 {
				input.Title = "Focus Session"
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session started")
			state, err := app.SessionCLI.Run(ctx, input, clock.NewSystemTicker(time.Second))
			if err != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session aborted, nothing recorded")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session finished at %.0f%% intensity\n", state.Intensity)
			return app.Session.Flush(context.Background())
		},
	}
	runCmd.Flags().StringVar(&taskID, "task", "", "task id to focus on")
	runCmd.Flags().IntVar(&minutes, "minutes", 0, "override duration in minutes")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sessions, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			for _, r := range app.SessionCLI.History(context.Background()) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-32s %3dm  %3.0f%%  %d interruptions\n",
					r.Date, r.TaskTitle, r.DurationMin, r.AverageIntensity, r.Interruptions)
			}
			return nil
		},
	}

	session.AddCommand(runCmd, historyCmd)
	return session
}

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show progression stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			s := app.SessionCLI.Stats(context.Background())
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "level %d (%d xp)\n", s.Level, s.XP)
			_, _ = fmt.Fprintf(out, "%d sessions, %d focused minutes\n", s.TotalSessions, s.TotalMinutes)
			_, _ = fmt.Fprintf(out, "streak %d (best %d)\n", s.CurrentStreak, s.LongestStreak)
			if s.LastActiveDate != "" {
				_, _ = fmt.Fprintf(out, "last active %s\n", s.LastActiveDate)
			}
			return nil
		},
	}
}

func newBadgesCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "Show the badge collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			for _, b := range app.SessionCLI.Badges(context.Background()) {
				mark := " "
				if b.Unlocked {
					mark = b.Icon
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %s\n", mark, b.Name, b.Description)
			}
			return nil
		},
	}
}

func newAnalyticsCmd(dataDir *string) *cobra.Command {
	analytics := &cobra.Command{Use: "analytics", Short: "Aggregate session history"}

	heatmapCmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Focused minutes by weekday and hour",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out := app.AnalyticsCLI.Heatmap(context.Background())
			w := cmd.OutOrStdout()
			if !out.HasPeak {
				_, _ = fmt.Fprintln(w, "no sessions yet")
				return nil
			}
			days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
			for d, row := range out.Grid {
				var sb strings.Builder
				for _, minutes := range row {
					// One cell per hour, digits in tens of minutes.
					switch {
					case minutes == 0:
						sb.WriteByte('.')
					case minutes < 100:
						sb.WriteByte(byte('0' + minutes/10))
					default:
						sb.WriteByte('+')
					}
				}
				_, _ = fmt.Fprintf(w, "%s %s\n", days[d], sb.String())
			}
			_, _ = fmt.Fprintf(w, "peak: %s %02d:00 (%dm focused)\n",
				out.PeakWeekday, out.PeakHour, out.PeakMinutes)
			return nil
		},
	}

	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Focused minutes over the last 7 days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			for _, p := range app.AnalyticsCLI.Trend(context.Background()) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %4dm  %d sessions\n",
					p.Date, p.Minutes, p.Sessions)
			}
			return nil
		},
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Consistency score over the last 14 days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out := app.AnalyticsCLI.Consistency(context.Background())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d / 100 over %d days\n", out.Score, out.WindowDays)
			return nil
		},
	}

	analytics.AddCommand(heatmapCmd, trendCmd, consistencyCmd)
	return analytics
}

func newProviderCmd(dataDir *string) *cobra.Command {
	provider := &cobra.Command{Use: "provider", Short: "External task provider plugin"}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Probe the configured provider binary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.TaskCLI.CheckProvider(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "provider ok")
			return nil
		},
	}

	provider.AddCommand(checkCmd)
	return provider
}
