package dto

// TaskInput hands the engine the task to focus on. The engine never writes
// back to the task store except through completion.
type TaskInput struct {
	ID          string
	Title       string
	DurationMin int
}

type TimerOutput struct {
	TimeLeft        int
	InitialDuration int
	Active          bool
}

// StateOutput is a point-in-time view of the engine for rendering.
type StateOutput struct {
	Phase        string
	Timer        TimerOutput
	Intensity    float64
	Distractions int
	Pauses       int
	TaskID       string
	TaskTitle    string
	HasTask      bool
}

type RecordOutput struct {
	ID               string
	Date             string
	Timestamp        int64
	DurationMin      int
	AverageIntensity float64
	Interruptions    int
	TaskID           string
	TaskTitle        string
	Successful       bool
}

type StatsOutput struct {
	TotalSessions  int
	TotalMinutes   int
	CurrentStreak  int
	LongestStreak  int
	LastActiveDate string
	XP             int
	Level          int
}

// BadgeOutput joins the catalog definition with its unlock state.
type BadgeOutput struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Unlocked    bool
}
