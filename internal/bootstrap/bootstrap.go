package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	analyticsinadapter "forge/internal/modules/analytics/adapter/in"
	analyticsusecase "forge/internal/modules/analytics/usecase"
	sessioninadapter "forge/internal/modules/session/adapter/in"
	sessionoutadapter "forge/internal/modules/session/adapter/out"
	sessionservice "forge/internal/modules/session/service"
	sessionusecase "forge/internal/modules/session/usecase"
	taskinadapter "forge/internal/modules/task/adapter/in"
	taskoutadapter "forge/internal/modules/task/adapter/out"
	taskin "forge/internal/modules/task/port/in"
	taskout "forge/internal/modules/task/port/out"
	taskservice "forge/internal/modules/task/service"
	taskusecase "forge/internal/modules/task/usecase"
	"forge/internal/platform/clock"
	"forge/internal/platform/config"
	"forge/internal/platform/id"
	uiapp "forge/internal/ui/app"
)

type App struct {
	SessionCLI   sessioninadapter.CLIHandler
	TaskCLI      taskinadapter.CLIHandler
	AnalyticsCLI analyticsinadapter.CLIHandler

	Session   *sessionusecase.Interactor
	Tasks     taskin.Usecase
	Analytics *analyticsusecase.Interactor

	Config config.Config
	Logger hclog.Logger
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	taskStore, err := taskoutadapter.NewSQLiteTaskStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new task store: %w", err)
	}
	var provider taskout.Provider
	if cfg.ProviderBinary != "" {
		provider = taskoutadapter.NewPluginProvider(cfg.ProviderBinary)
	}
	taskUC := taskusecase.NewInteractor(
		taskservice.NewTaskService(clk, ids, taskStore), provider)

	projector, err := sessionoutadapter.NewSQLiteHistoryProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new history projector: %w", err)
	}
	engine := sessionservice.NewEngine(
		clk, ids,
		sessionoutadapter.NewFileSnapshotStore(cfg.SnapshotPath),
		sessionoutadapter.NewTaskCompleter(taskUC),
		sessionoutadapter.NewJournalStore(cfg.JournalDir),
		projector,
		logger,
	)
	engine.SetDefaultDuration(cfg.DefaultDurationMin)
	sessionUC := sessionusecase.New(engine)
	analyticsUC := analyticsusecase.New(sessionUC, clk)

	return &App{
		SessionCLI:   sessioninadapter.NewCLIHandler(sessionUC),
		TaskCLI:      taskinadapter.NewCLIHandler(taskUC),
		AnalyticsCLI: analyticsinadapter.NewCLIHandler(analyticsUC),
		Session:      sessionUC,
		Tasks:        taskUC,
		Analytics:    analyticsUC,
		Config:       cfg,
		Logger:       logger,
	}, nil
}

// newLogger writes to a file under the data dir so log lines never tear
// through the TUI's alternate screen.
func newLogger(cfg config.Config) (hclog.Logger, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	out, err := os.OpenFile(filepath.Join(cfg.DataDir, "forge.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "forge",
		Output: out,
		Level:  hclog.Info,
	}), nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(
		app.Session,
		app.Tasks,
		app.Session,
		app.Analytics,
		app.Config.QueueLimit,
		app.Config.RitualSeconds,
		app.Config.CompletionSeconds,
	)
	// Focus reporting turns terminal blur into distraction events.
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := program.Run()
	return err
}
