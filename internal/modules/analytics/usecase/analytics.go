package usecase

import (
	"context"
	"time"

	"forge/internal/modules/analytics/domain"
	"forge/internal/modules/analytics/dto"
	analyticsout "forge/internal/modules/analytics/port/out"
	"forge/internal/platform/clock"
)

// Interactor aggregates the session history into dashboard views. History
// already contains only counted sessions, so no filtering happens here.
type Interactor struct {
	sessions analyticsout.HistorySource
	clock    clock.Clock
}

func New(sessions analyticsout.HistorySource, clk clock.Clock) *Interactor {
	return &Interactor{sessions: sessions, clock: clk}
}

func (i *Interactor) entries(ctx context.Context) []domain.Entry {
	history := i.sessions.History(ctx)
	entries := make([]domain.Entry, 0, len(history))
	for _, r := range history {
		entries = append(entries, domain.Entry{
			Date:        r.Date,
			Timestamp:   time.UnixMilli(r.Timestamp),
			DurationMin: r.DurationMin,
		})
	}
	return entries
}

func (i *Interactor) Heatmap(ctx context.Context) dto.HeatmapOutput {
	grid := domain.Heatmap(i.entries(ctx))
	out := dto.HeatmapOutput{Grid: grid}
	if weekday, hour, minutes, ok := grid.Peak(); ok {
		out.PeakWeekday = weekday.String()
		out.PeakHour = hour
		out.PeakMinutes = minutes
		out.HasPeak = true
	}
	return out
}

func (i *Interactor) Trend(ctx context.Context) []dto.TrendPoint {
	points := domain.Trend(i.entries(ctx), i.clock.Now())
	out := make([]dto.TrendPoint, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TrendPoint{Date: p.Date, Minutes: p.Minutes, Sessions: p.Sessions})
	}
	return out
}

func (i *Interactor) Consistency(ctx context.Context) dto.ConsistencyOutput {
	return dto.ConsistencyOutput{
		Score:      domain.Consistency(i.entries(ctx), i.clock.Now()),
		WindowDays: domain.ConsistencyDays,
	}
}
