package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"forge/internal/modules/session/domain"
	"forge/internal/modules/session/service"
	apperrors "forge/internal/platform/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type seqID struct {
	n int
}

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type memSnapshotStore struct {
	snapshot domain.Snapshot
	saves    int
	failSave bool
}

func (s *memSnapshotStore) Load(context.Context) (domain.Snapshot, error) {
	return s.snapshot, nil
}

func (s *memSnapshotStore) Save(_ context.Context, snapshot domain.Snapshot) error {
	if s.failSave {
		return errors.New("disk full")
	}
	s.snapshot = snapshot
	s.saves++
	return nil
}

type recordingCompleter struct {
	ids []string
}

func (c *recordingCompleter) MarkCompleted(_ context.Context, taskID string) error {
	c.ids = append(c.ids, taskID)
	return nil
}

func newEngine(t *testing.T, store *memSnapshotStore) (*service.Engine, *recordingCompleter) {
	t.Helper()
	completer := &recordingCompleter{}
	clk := &fakeClock{now: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)}
	engine := service.NewEngine(clk, &seqID{}, store, completer, nil, nil, nil)
	return engine, completer
}

func startFocus(t *testing.T, e *service.Engine, task domain.Task) {
	t.Helper()
	if err := e.SetPhase(domain.PhaseEntry); err != nil {
		t.Fatalf("enter entry: %v", err)
	}
	if task.Title != "" {
		if err := e.SetTask(task); err != nil {
			t.Fatalf("set task: %v", err)
		}
	}
	if err := e.SetPhase(domain.PhaseLockIn); err != nil {
		t.Fatalf("enter lock-in: %v", err)
	}
	if err := e.StartSession(); err != nil {
		t.Fatalf("start session: %v", err)
	}
}

func TestFullRunAutoFinalizes(t *testing.T) {
	t.Parallel()
	store := &memSnapshotStore{}
	engine, completer := newEngine(t, store)
	startFocus(t, engine, domain.Task{ID: "t1", Title: "write report", DurationMin: 25})

	for i := 0; i < 25*60; i++ {
		engine.TickTimer()
	}

	if got := engine.Phase(); got != domain.PhaseCompletion {
		t.Fatalf("expected completion after expiry, got %s", got)
	}
	if timer := engine.Timer(); timer.TimeLeft != 0 || timer.Active {
		t.Fatalf("timer should be stopped at zero: %+v", timer)
	}
	if got := engine.Intensity(); got != 100 {
		t.Fatalf("display intensity should celebrate at 100, got %f", got)
	}

	history := engine.History()
	if len(history) != 1 {
		t.Fatalf("expected one record, got %d", len(history))
	}
	record := history[0]
	if record.DurationMin != 25 || !record.Successful {
		t.Fatalf("record wrong: %+v", record)
	}
	// 1500 ticks * 0.027 = 40.5, no interruptions.
	if record.AverageIntensity < 40.49 || record.AverageIntensity > 40.51 {
		t.Fatalf("expected accumulated intensity ~40.5, got %f", record.AverageIntensity)
	}
	if record.TaskID != "t1" || record.TaskTitle != "write report" {
		t.Fatalf("task attribution wrong: %+v", record)
	}

	stats := engine.Stats()
	if stats.TotalSessions != 1 || stats.TotalMinutes != 25 || stats.CurrentStreak != 1 {
		t.Fatalf("stats wrong: %+v", stats)
	}
	// floor(25 * 40.5 / 10) = floor(101.25)
	if stats.XP != 101 {
		t.Fatalf("expected 101 xp, got %d", stats.XP)
	}
	if len(completer.ids) != 1 || completer.ids[0] != "t1" {
		t.Fatalf("task should be marked completed once: %v", completer.ids)
	}
	if store.saves != 1 {
		t.Fatalf("finalization should write through once, got %d", store.saves)
	}
}

func TestAbortDiscardsEverything(t *testing.T) {
	t.Parallel()
	store := &memSnapshotStore{}
	engine, completer := newEngine(t, store)
	startFocus(t, engine, domain.Task{ID: "t1", Title: "deep work", DurationMin: 25})

	for i := 0; i < 600; i++ {
		engine.TickTimer()
	}
	if err := engine.FinishSession(false); err != nil {
		t.Fatalf("abort: %v", err)
	}

	if got := engine.Phase(); got != domain.PhaseIdle {
		t.Fatalf("abort should land on idle, got %s", got)
	}
	if len(engine.History()) != 0 {
		t.Fatal("abort must not record history")
	}
	if engine.Stats().TotalSessions != 0 {
		t.Fatal("abort must not touch stats")
	}
	if len(completer.ids) != 0 {
		t.Fatal("abort must not complete the task")
	}
	if store.saves != 0 {
		t.Fatal("abort must not persist")
	}
	if _, ok := engine.ActiveTask(); ok {
		t.Fatal("abort should clear the active task")
	}
}

func TestShortSessionIsDiscarded(t *testing.T) {
	t.Parallel()
	store := &memSnapshotStore{}
	engine, _ := newEngine(t, store)
	startFocus(t, engine, domain.Task{ID: "t1", Title: "quick", DurationMin: 25})

	// 90 seconds elapsed rounds down to 1 minute, below the counted floor.
	for i := 0; i < 90; i++ {
		engine.TickTimer()
	}
	if err := engine.FinishSession(true); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if got := engine.Phase(); got != domain.PhaseCompletion {
		t.Fatalf("short finish still celebrates, got %s", got)
	}
	if len(engine.History()) != 0 || engine.Stats().TotalSessions != 0 {
		t.Fatal("sessions at or under one minute must not count")
	}
	if store.saves != 0 {
		t.Fatal("uncounted finish must not persist")
	}
}

func TestDoubleFinalizationIsNoOp(t *testing.T) {
	t.Parallel()
	store := &memSnapshotStore{}
	engine, completer := newEngine(t, store)
	startFocus(t, engine, domain.Task{ID: "t1", Title: "essay", DurationMin: 25})

	for i := 0; i < 300; i++ {
		engine.TickTimer()
	}
	if err := engine.FinishSession(true); err != nil {
		t.Fatalf("first finish: %v", err)
	}
	if err := engine.FinishSession(true); err != nil {
		t.Fatalf("second finish should be silent: %v", err)
	}
	engine.TickTimer()

	if len(engine.History()) != 1 {
		t.Fatalf("exactly one record expected, got %d", len(engine.History()))
	}
	if len(completer.ids) != 1 {
		t.Fatalf("task completed exactly once, got %v", completer.ids)
	}
	if store.saves != 1 {
		t.Fatalf("exactly one write-through expected, got %d", store.saves)
	}
}

func TestPauseAndDistractionPenalties(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t, &memSnapshotStore{})
	startFocus(t, engine, domain.Task{Title: "reading", DurationMin: 25})

	for i := 0; i < 1000; i++ {
		engine.TickTimer()
	}
	before := engine.Intensity()

	if err := engine.PauseSession(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	afterPause := engine.Intensity()
	if diff := before - afterPause; diff < 2.99 || diff > 3.01 {
		t.Fatalf("pause should cost 3 points, cost %f", diff)
	}
	engine.TickTimer()
	if engine.Intensity() != afterPause {
		t.Fatal("paused timer must not grow intensity")
	}
	if err := engine.PauseSession(); err != nil {
		t.Fatalf("re-pause: %v", err)
	}
	if engine.Pauses() != 1 {
		t.Fatalf("pausing a paused session must not double count, got %d", engine.Pauses())
	}

	if err := engine.ResumeSession(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	engine.AttentionLost()
	engine.AttentionLost()
	if engine.Distractions() != 1 {
		t.Fatalf("continuous away interval fires once, got %d", engine.Distractions())
	}
	engine.AttentionRegained()
	engine.AttentionLost()
	if engine.Distractions() != 2 {
		t.Fatalf("new interval fires again, got %d", engine.Distractions())
	}
}

func TestIntensityStaysInBounds(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t, &memSnapshotStore{})
	startFocus(t, engine, domain.Task{Title: "grind", DurationMin: 90})

	engine.AttentionLost()
	engine.AttentionRegained()
	if engine.Intensity() != 0 {
		t.Fatalf("penalty at zero clamps to zero, got %f", engine.Intensity())
	}
	// 90 minutes of growth would exceed the cap without clamping.
	for i := 0; i < 90*60-1; i++ {
		engine.TickTimer()
	}
	if got := engine.Intensity(); got > 100 {
		t.Fatalf("intensity must saturate at 100, got %f", got)
	}
}

func TestTickOutsideFocusIsNoOp(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t, &memSnapshotStore{})
	engine.TickTimer()
	if got := engine.Phase(); got != domain.PhaseIdle {
		t.Fatalf("idle tick must not move the machine, got %s", got)
	}
	if engine.Intensity() != 0 {
		t.Fatal("idle tick must not grow intensity")
	}
}

func TestPhaseGuards(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t, &memSnapshotStore{})
	if err := engine.SetPhase(domain.PhaseFocus); !errors.Is(err, apperrors.ErrInvalidPhase) {
		t.Fatalf("focus is only reachable via start, got %v", err)
	}
	if err := engine.SetPhase(domain.PhaseCompletion); !errors.Is(err, apperrors.ErrInvalidPhase) {
		t.Fatalf("idle -> completion must be rejected, got %v", err)
	}
	if err := engine.StartSession(); !errors.Is(err, apperrors.ErrInvalidPhase) {
		t.Fatalf("start outside lock-in must be rejected, got %v", err)
	}
	if err := engine.PauseSession(); !errors.Is(err, apperrors.ErrInvalidPhase) {
		t.Fatalf("pause outside focus must be rejected, got %v", err)
	}
	if err := engine.FinishSession(true); !errors.Is(err, apperrors.ErrInvalidPhase) {
		t.Fatalf("finish outside focus must be rejected, got %v", err)
	}
}

func TestSessionWithoutTaskUsesPlaceholder(t *testing.T) {
	t.Parallel()
	store := &memSnapshotStore{}
	engine, completer := newEngine(t, store)
	startFocus(t, engine, domain.Task{})

	if timer := engine.Timer(); timer.InitialDuration != domain.DefaultDurationMin*60 {
		t.Fatalf("taskless session gets the default duration, got %d", timer.InitialDuration)
	}
	for i := 0; i < 300; i++ {
		engine.TickTimer()
	}
	if err := engine.FinishSession(true); err != nil {
		t.Fatalf("finish: %v", err)
	}
	record := engine.History()[0]
	if record.TaskTitle != domain.PlaceholderTitle || record.TaskID != "" {
		t.Fatalf("placeholder attribution wrong: %+v", record)
	}
	if len(completer.ids) != 0 {
		t.Fatal("no task, nothing to complete")
	}
}

func TestConfiguredDefaultDuration(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t, &memSnapshotStore{})
	engine.SetDefaultDuration(50)

	if timer := engine.Timer(); timer.InitialDuration != 50*60 {
		t.Fatalf("idle timer should pick up the configured default, got %d", timer.InitialDuration)
	}
	startFocus(t, engine, domain.Task{})
	if timer := engine.Timer(); timer.InitialDuration != 50*60 {
		t.Fatalf("taskless session should run for the configured default, got %d", timer.InitialDuration)
	}
	if err := engine.FinishSession(false); err != nil {
		t.Fatalf("abort: %v", err)
	}

	// A task with its own duration still wins over the default.
	startFocus(t, engine, domain.Task{ID: "t1", Title: "short one", DurationMin: 10})
	if timer := engine.Timer(); timer.InitialDuration != 10*60 {
		t.Fatalf("task duration should win over the default, got %d", timer.InitialDuration)
	}
}

func TestSnapshotRestore(t *testing.T) {
	t.Parallel()
	store := &memSnapshotStore{}
	engine, _ := newEngine(t, store)
	startFocus(t, engine, domain.Task{ID: "t1", Title: "thesis", DurationMin: 45})
	for i := 0; i < 45*60; i++ {
		engine.TickTimer()
	}
	if store.saves != 1 {
		t.Fatalf("expected one persisted snapshot, got %d", store.saves)
	}

	restored, _ := newEngine(t, store)
	if got := restored.Phase(); got != domain.PhaseIdle {
		t.Fatalf("restore always lands on idle, got %s", got)
	}
	if _, ok := restored.ActiveTask(); ok {
		t.Fatal("transient task must not survive restarts")
	}
	if len(restored.History()) != 1 {
		t.Fatalf("history must survive restarts, got %d", len(restored.History()))
	}
	if restored.Stats().TotalSessions != 1 {
		t.Fatalf("stats must survive restarts: %+v", restored.Stats())
	}
}

func TestFailedWriteKeepsStateAndDirtyFlag(t *testing.T) {
	t.Parallel()
	store := &memSnapshotStore{failSave: true}
	engine, _ := newEngine(t, store)
	startFocus(t, engine, domain.Task{Title: "offline", DurationMin: 25})
	for i := 0; i < 25*60; i++ {
		engine.TickTimer()
	}

	if len(engine.History()) != 1 {
		t.Fatal("in-memory state is authoritative even when the write fails")
	}
	if !engine.Dirty() {
		t.Fatal("failed write must leave the snapshot dirty")
	}
	store.failSave = false
	if err := engine.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if engine.Dirty() || store.saves != 1 {
		t.Fatalf("flush should clear the dirty flag, saves=%d", store.saves)
	}
}

func TestResetFromAnyPhase(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t, &memSnapshotStore{})
	startFocus(t, engine, domain.Task{Title: "abandoned", DurationMin: 25})
	engine.ResetSession()
	if got := engine.Phase(); got != domain.PhaseIdle {
		t.Fatalf("reset lands on idle, got %s", got)
	}
	if timer := engine.Timer(); timer.Active {
		t.Fatal("reset stops the timer")
	}
}
