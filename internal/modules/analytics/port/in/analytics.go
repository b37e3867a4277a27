package in

import (
	"context"

	"forge/internal/modules/analytics/dto"
)

type Usecase interface {
	Heatmap(ctx context.Context) dto.HeatmapOutput
	Trend(ctx context.Context) []dto.TrendPoint
	Consistency(ctx context.Context) dto.ConsistencyOutput
}
