package usecase

import (
	"context"

	progression "forge/internal/modules/progression/domain"
	"forge/internal/modules/session/domain"
	"forge/internal/modules/session/dto"
	"forge/internal/modules/session/service"
	apperrors "forge/internal/platform/errors"
)

// Interactor adapts the engine to the inbound port: it validates phase
// names, maps domain types to transport-neutral DTOs and joins the badge
// catalog with the unlocked set.
type Interactor struct {
	engine *service.Engine
}

func New(engine *service.Engine) *Interactor {
	return &Interactor{engine: engine}
}

var phaseNames = map[string]domain.Phase{
	string(domain.PhaseIdle):       domain.PhaseIdle,
	string(domain.PhaseEntry):      domain.PhaseEntry,
	string(domain.PhaseLockIn):     domain.PhaseLockIn,
	string(domain.PhaseFocus):      domain.PhaseFocus,
	string(domain.PhaseCompletion): domain.PhaseCompletion,
	string(domain.PhaseExit):       domain.PhaseExit,
}

func (i *Interactor) SetPhase(_ context.Context, phase string) error {
	p, ok := phaseNames[phase]
	if !ok {
		return apperrors.ErrInvalidInput
	}
	return i.engine.SetPhase(p)
}

func (i *Interactor) SetTask(_ context.Context, task dto.TaskInput) error {
	if task.Title == "" {
		return apperrors.ErrInvalidInput
	}
	return i.engine.SetTask(domain.Task{
		ID:          task.ID,
		Title:       task.Title,
		DurationMin: task.DurationMin,
	})
}

func (i *Interactor) Start(context.Context) error  { return i.engine.StartSession() }
func (i *Interactor) Pause(context.Context) error  { return i.engine.PauseSession() }
func (i *Interactor) Resume(context.Context) error { return i.engine.ResumeSession() }
func (i *Interactor) Tick(context.Context)         { i.engine.TickTimer() }

func (i *Interactor) AttentionLost(context.Context)       { i.engine.AttentionLost() }
func (i *Interactor) AttentionRegained(context.Context)   { i.engine.AttentionRegained() }
func (i *Interactor) RegisterDistraction(context.Context) { i.engine.RegisterDistraction() }

func (i *Interactor) Finish(_ context.Context, successful bool) error {
	return i.engine.FinishSession(successful)
}

func (i *Interactor) Reset(context.Context)       { i.engine.ResetSession() }
func (i *Interactor) Flush(context.Context) error { return i.engine.Flush() }

func (i *Interactor) State(context.Context) dto.StateOutput {
	timer := i.engine.Timer()
	out := dto.StateOutput{
		Phase: string(i.engine.Phase()),
		Timer: dto.TimerOutput{
			TimeLeft:        timer.TimeLeft,
			InitialDuration: timer.InitialDuration,
			Active:          timer.Active,
		},
		Intensity:    i.engine.Intensity(),
		Distractions: i.engine.Distractions(),
		Pauses:       i.engine.Pauses(),
	}
	if task, ok := i.engine.ActiveTask(); ok {
		out.TaskID = task.ID
		out.TaskTitle = task.Title
		out.HasTask = true
	}
	return out
}

func (i *Interactor) History(context.Context) []dto.RecordOutput {
	history := i.engine.History()
	out := make([]dto.RecordOutput, 0, len(history))
	for _, r := range history {
		out = append(out, dto.RecordOutput{
			ID:               r.ID,
			Date:             r.Date,
			Timestamp:        r.Timestamp,
			DurationMin:      r.DurationMin,
			AverageIntensity: r.AverageIntensity,
			Interruptions:    r.Interruptions,
			TaskID:           r.TaskID,
			TaskTitle:        r.TaskTitle,
			Successful:       r.Successful,
		})
	}
	return out
}

func (i *Interactor) Stats(context.Context) dto.StatsOutput {
	stats := i.engine.Stats()
	return dto.StatsOutput{
		TotalSessions:  stats.TotalSessions,
		TotalMinutes:   stats.TotalMinutes,
		CurrentStreak:  stats.CurrentStreak,
		LongestStreak:  stats.LongestStreak,
		LastActiveDate: stats.LastActiveDate,
		XP:             stats.XP,
		Level:          stats.Level,
	}
}

func (i *Interactor) Badges(context.Context) []dto.BadgeOutput {
	unlocked := make(map[string]struct{})
	for _, id := range i.engine.Badges() {
		unlocked[id] = struct{}{}
	}
	catalog := progression.Catalog()
	out := make([]dto.BadgeOutput, 0, len(catalog))
	for _, b := range catalog {
		_, ok := unlocked[b.ID]
		out = append(out, dto.BadgeOutput{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			Unlocked:    ok,
		})
	}
	return out
}
