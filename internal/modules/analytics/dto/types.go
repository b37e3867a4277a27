package dto

type HeatmapOutput struct {
	// Grid sums focused minutes per weekday (0 = Sunday) and start hour.
	Grid [7][24]int

	PeakWeekday string
	PeakHour    int
	PeakMinutes int
	HasPeak     bool
}

type TrendPoint struct {
	Date     string
	Minutes  int
	Sessions int
}

type ConsistencyOutput struct {
	Score      int
	WindowDays int
}
