package in

import (
	"context"

	"forge/internal/modules/analytics/dto"
	analyticsin "forge/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Heatmap(ctx context.Context) dto.HeatmapOutput {
	return h.usecase.Heatmap(ctx)
}

func (h CLIHandler) Trend(ctx context.Context) []dto.TrendPoint {
	return h.usecase.Trend(ctx)
}

func (h CLIHandler) Consistency(ctx context.Context) dto.ConsistencyOutput {
	return h.usecase.Consistency(ctx)
}
