package service

import (
	"context"
	"sync"
	"time"

	progression "forge/internal/modules/progression/domain"
	"forge/internal/modules/session/domain"
	sessionout "forge/internal/modules/session/port/out"
	"forge/internal/platform/clock"
	apperrors "forge/internal/platform/errors"
	"forge/internal/platform/id"

	hclog "github.com/hashicorp/go-hclog"
)

// Engine owns the focus-session lifecycle: the phase machine, the countdown
// timer, intensity scoring and finalization into the progression ledger.
// Every event handler runs under one mutex, so each tick, pause, distraction
// or finalize is an atomic read-modify-write; there are no concurrent
// writers. The in-memory state is authoritative: snapshot writes are
// fire-and-forget and a failed write is logged, never surfaced.
type Engine struct {
	mu        sync.Mutex
	clock     clock.Clock
	ids       id.Generator
	store     sessionout.SnapshotStore
	completer sessionout.TaskCompleter
	journal   sessionout.JournalStore
	projector sessionout.HistoryProjector
	log       hclog.Logger

	phase        domain.Phase
	defaultMin   int
	task         *domain.Task
	timer        domain.Timer
	intensity    float64
	distractions int
	pauses       int
	startTime    time.Time
	away         bool
	finalized    bool

	snapshot domain.Snapshot
	dirty    bool
}

// NewEngine restores the persisted snapshot and starts at idle. The
// completer, journal and projector collaborators may be nil; the engine
// degrades to skipping those side effects.
func NewEngine(
	clk clock.Clock,
	ids id.Generator,
	store sessionout.SnapshotStore,
	completer sessionout.TaskCompleter,
	journal sessionout.JournalStore,
	projector sessionout.HistoryProjector,
	logger hclog.Logger,
) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	e := &Engine{
		clock:      clk,
		ids:        ids,
		store:      store,
		completer:  completer,
		journal:    journal,
		projector:  projector,
		log:        logger,
		phase:      domain.PhaseIdle,
		defaultMin: domain.DefaultDurationMin,
		timer:      domain.NewTimer(0),
	}
	if store != nil {
		snapshot, err := store.Load(context.Background())
		if err != nil {
			logger.Warn("snapshot restore failed, starting empty", "error", err)
		} else {
			e.snapshot = snapshot
		}
	}
	if e.snapshot.Stats.Level == 0 {
		e.snapshot.Stats.Level = progression.LevelFor(e.snapshot.Stats.XP)
	}
	return e
}

// SetDefaultDuration overrides the fallback timer length used for taskless
// sessions and tasks without a duration of their own.
func (e *Engine) SetDefaultDuration(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if minutes <= 0 {
		return
	}
	e.defaultMin = minutes
	if e.phase == domain.PhaseIdle {
		e.timer = e.newTimerLocked(0)
	}
}

func (e *Engine) newTimerLocked(durationMin int) domain.Timer {
	if durationMin <= 0 {
		durationMin = e.defaultMin
	}
	return domain.NewTimer(durationMin)
}

// SetPhase moves the machine along an allowed edge. Entering focus goes
// through StartSession, never through SetPhase.
func (e *Engine) SetPhase(to domain.Phase) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if to == domain.PhaseFocus {
		return apperrors.ErrInvalidPhase
	}
	if !domain.CanTransition(e.phase, to) {
		return apperrors.ErrInvalidPhase
	}
	if to == domain.PhaseIdle || to == domain.PhaseEntry {
		e.resetTransientLocked()
	}
	e.phase = to
	return nil
}

// SetTask locks in the task to focus on and sizes the timer from its
// duration, defaulting when the duration is missing or invalid.
func (e *Engine) SetTask(task domain.Task) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == domain.PhaseFocus || e.phase == domain.PhaseCompletion {
		return apperrors.ErrInvalidPhase
	}
	t := task
	e.task = &t
	e.timer = e.newTimerLocked(task.DurationMin)
	return nil
}

// StartSession begins the countdown: lock-in -> focus.
func (e *Engine) StartSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.PhaseLockIn {
		return apperrors.ErrInvalidPhase
	}
	if e.timer.InitialDuration == 0 {
		e.timer = e.newTimerLocked(0)
	}
	e.timer.TimeLeft = e.timer.InitialDuration
	e.timer.Active = true
	e.phase = domain.PhaseFocus
	e.startTime = e.clock.Now()
	e.intensity = 0
	e.distractions = 0
	e.pauses = 0
	e.away = false
	e.finalized = false
	return nil
}

// PauseSession halts growth and charges the pause penalty once per pause
// event. Pausing an already-paused session is a no-op.
func (e *Engine) PauseSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.PhaseFocus {
		return apperrors.ErrInvalidPhase
	}
	if !e.timer.Active {
		return nil
	}
	e.timer.Active = false
	e.pauses++
	e.intensity = domain.Penalize(e.intensity, domain.PausePenalty)
	return nil
}

func (e *Engine) ResumeSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.PhaseFocus {
		return apperrors.ErrInvalidPhase
	}
	e.timer.Active = true
	return nil
}

// TickTimer advances the countdown by one second and grows intensity.
// Outside an active focus phase it is a no-op, so a stray tick after abort
// or completion cannot mutate state. Reaching zero finalizes the session
// as successful.
func (e *Engine) TickTimer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.PhaseFocus || !e.timer.Active || e.timer.TimeLeft <= 0 {
		return
	}
	e.timer.TimeLeft--
	e.intensity = domain.Grow(e.intensity)
	if e.timer.TimeLeft == 0 {
		e.finishLocked(true)
	}
}

// AttentionLost charges the distraction penalty on the transition into
// "away". While away, further loss events do not double-fire.
func (e *Engine) AttentionLost() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.away {
		return
	}
	e.away = true
	e.registerDistractionLocked()
}

func (e *Engine) AttentionRegained() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.away = false
}

// RegisterDistraction records a discrete distraction event. Edge filtering
// for continuous intervals is the caller's concern; platform signals should
// come in through AttentionLost/AttentionRegained instead.
func (e *Engine) RegisterDistraction() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registerDistractionLocked()
}

func (e *Engine) registerDistractionLocked() {
	if e.phase != domain.PhaseFocus || !e.timer.Active {
		return
	}
	e.distractions++
	e.intensity = domain.Penalize(e.intensity, domain.DistractionPenalty)
}

// FinishSession finalizes the running session. successful=false aborts:
// the session is discarded with no record, no stats or badge mutation, and
// the machine returns to idle. A second finalization is a no-op.
func (e *Engine) FinishSession(successful bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finishLocked(successful)
}

func (e *Engine) finishLocked(successful bool) error {
	if e.finalized {
		return nil
	}
	if e.phase != domain.PhaseFocus {
		return apperrors.ErrInvalidPhase
	}
	if !successful {
		e.resetTransientLocked()
		e.phase = domain.PhaseIdle
		return nil
	}

	now := e.clock.Now()
	record := domain.Record{
		ID:               e.ids.New(),
		Date:             domain.DateOf(now),
		Timestamp:        now.UnixMilli(),
		DurationMin:      e.timer.ElapsedSeconds() / 60,
		AverageIntensity: e.intensity,
		Interruptions:    e.distractions + e.pauses,
		TaskTitle:        domain.PlaceholderTitle,
		Successful:       true,
	}
	if e.task != nil {
		record.TaskID = e.task.ID
		record.TaskTitle = e.task.Title
	}

	e.finalized = true
	e.phase = domain.PhaseCompletion
	e.timer.TimeLeft = 0
	e.timer.Active = false
	// Celebratory full bar; the record keeps the true accumulated score.
	e.intensity = 100

	if record.Counted() {
		e.snapshot.History = append([]domain.Record{record}, e.snapshot.History...)
		e.snapshot.Stats = e.snapshot.Stats.Apply(record.Facts(), now)
		fresh := progression.EvaluateBadges(e.snapshot.Badges, e.snapshot.Stats, record.Facts())
		e.snapshot.Badges = append(e.snapshot.Badges, fresh...)
		e.applySideEffectsLocked(record)
		e.persistLocked()
	}
	return nil
}

func (e *Engine) applySideEffectsLocked(record domain.Record) {
	ctx := context.Background()
	if e.completer != nil && record.TaskID != "" {
		if err := e.completer.MarkCompleted(ctx, record.TaskID); err != nil {
			e.log.Warn("mark task completed failed", "task_id", record.TaskID, "error", err)
		}
	}
	if e.journal != nil {
		if _, err := e.journal.Save(ctx, record); err != nil {
			e.log.Warn("journal note write failed", "session_id", record.ID, "error", err)
		}
	}
	if e.projector != nil {
		if err := e.projector.Upsert(ctx, record); err != nil {
			e.log.Warn("history projection failed", "session_id", record.ID, "error", err)
		}
	}
}

// ResetSession discards all transient session fields and returns to idle.
func (e *Engine) ResetSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetTransientLocked()
	e.phase = domain.PhaseIdle
}

func (e *Engine) resetTransientLocked() {
	e.task = nil
	e.timer = e.newTimerLocked(0)
	e.intensity = 0
	e.distractions = 0
	e.pauses = 0
	e.startTime = time.Time{}
	e.away = false
	e.finalized = false
}

func (e *Engine) persistLocked() {
	e.dirty = true
	if e.store == nil {
		return
	}
	if err := e.store.Save(context.Background(), e.snapshotCopyLocked()); err != nil {
		e.log.Warn("snapshot write failed", "error", err)
		return
	}
	e.dirty = false
}

// Flush writes the snapshot if a previous write-through failed.
func (e *Engine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dirty || e.store == nil {
		return nil
	}
	if err := e.store.Save(context.Background(), e.snapshotCopyLocked()); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

func (e *Engine) snapshotCopyLocked() domain.Snapshot {
	history := make([]domain.Record, len(e.snapshot.History))
	copy(history, e.snapshot.History)
	badges := make([]string, len(e.snapshot.Badges))
	copy(badges, e.snapshot.Badges)
	return domain.Snapshot{History: history, Stats: e.snapshot.Stats, Badges: badges}
}

func (e *Engine) Phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) Timer() domain.Timer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timer
}

func (e *Engine) Intensity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.intensity
}

func (e *Engine) Distractions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.distractions
}

func (e *Engine) Pauses() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauses
}

// ActiveTask returns the locked-in task, if any.
func (e *Engine) ActiveTask() (domain.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.task == nil {
		return domain.Task{}, false
	}
	return *e.task, true
}

func (e *Engine) History() []domain.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Record, len(e.snapshot.History))
	copy(out, e.snapshot.History)
	return out
}

func (e *Engine) Stats() progression.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot.Stats
}

func (e *Engine) Badges() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.snapshot.Badges))
	copy(out, e.snapshot.Badges)
	return out
}

func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotCopyLocked()
}

func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}
