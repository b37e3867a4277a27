package domain

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

const (
	// TrendDays is the window of the daily minutes trend.
	TrendDays = 7
	// ConsistencyDays is the lookback window of the consistency score.
	ConsistencyDays = 14

	targetActiveDays   = 10
	targetDailyMinutes = 45
	frequencyWeight    = 0.6
	volumeWeight       = 0.4
)

// Entry is the analytics view of one counted session.
type Entry struct {
	Date        string
	Timestamp   time.Time
	DurationMin int
}

// HeatmapGrid sums focused minutes per weekday and start hour. Weekday
// indexes follow time.Weekday: 0 is Sunday.
type HeatmapGrid [7][24]int

func Heatmap(entries []Entry) HeatmapGrid {
	var grid HeatmapGrid
	for _, e := range entries {
		grid[int(e.Timestamp.Weekday())][e.Timestamp.Hour()] += e.DurationMin
	}
	return grid
}

// Peak returns the busiest weekday and hour, or ok=false on an empty grid.
func (g HeatmapGrid) Peak() (weekday time.Weekday, hour, minutes int, ok bool) {
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if g[d][h] > minutes {
				weekday, hour, minutes, ok = time.Weekday(d), h, g[d][h], true
			}
		}
	}
	return weekday, hour, minutes, ok
}

type TrendPoint struct {
	Date     string
	Minutes  int
	Sessions int
}

// Trend sums focused minutes per calendar day over the last TrendDays days,
// oldest first, ending on today. Days without sessions stay at zero.
func Trend(entries []Entry, today time.Time) []TrendPoint {
	points := make([]TrendPoint, TrendDays)
	index := make(map[string]*TrendPoint, TrendDays)
	for i := 0; i < TrendDays; i++ {
		day := today.AddDate(0, 0, i-TrendDays+1).Format(dateLayout)
		points[i] = TrendPoint{Date: day}
		index[day] = &points[i]
	}
	for _, e := range entries {
		if p, ok := index[e.Date]; ok {
			p.Minutes += e.DurationMin
			p.Sessions++
		}
	}
	return points
}

// Consistency scores the last ConsistencyDays days on a 0-100 scale. It
// blends how many distinct days had at least one session (60%, saturating
// at 10 days) with the average focused minutes on those active days (40%,
// saturating at 45 minutes per active day). No sessions scores zero.
func Consistency(entries []Entry, today time.Time) int {
	cutoff := today.AddDate(0, 0, -ConsistencyDays+1).Format(dateLayout)
	todayStr := today.Format(dateLayout)

	days := map[string]struct{}{}
	totalMinutes := 0
	for _, e := range entries {
		if e.Date < cutoff || e.Date > todayStr {
			continue
		}
		days[e.Date] = struct{}{}
		totalMinutes += e.DurationMin
	}
	if len(days) == 0 {
		return 0
	}

	frequency := math.Min(100, float64(len(days))/targetActiveDays*100)
	perDay := float64(totalMinutes) / float64(len(days))
	volume := math.Min(100, perDay/targetDailyMinutes*100)
	return int(math.Round(frequencyWeight*frequency + volumeWeight*volume))
}
