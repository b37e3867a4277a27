package domain

// ConditionKind tags which snapshot a badge condition consumes. Streak
// badges read the updated stats, the rest read the finished session.
type ConditionKind string

const (
	KindStats   ConditionKind = "stats"
	KindSession ConditionKind = "session"
)

type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Kind        ConditionKind

	statsMet   func(Stats) bool
	sessionMet func(SessionFacts) bool
}

// Met dispatches the condition to the snapshot its kind declares.
func (b Badge) Met(stats Stats, facts SessionFacts) bool {
	switch b.Kind {
	case KindStats:
		return b.statsMet != nil && b.statsMet(stats)
	case KindSession:
		return b.sessionMet != nil && b.sessionMet(facts)
	default:
		return false
	}
}

var catalog = []Badge{
	{
		ID: "streak_3", Name: "Momentum", Description: "3-day streak", Icon: "🔥",
		Kind:     KindStats,
		statsMet: func(s Stats) bool { return s.CurrentStreak >= 3 },
	},
	{
		ID: "streak_7", Name: "7-Day Forge", Description: "7-day streak", Icon: "⚡",
		Kind:     KindStats,
		statsMet: func(s Stats) bool { return s.CurrentStreak >= 7 },
	},
	{
		ID: "deep_focus", Name: "Deep Focus", Description: "Intensity above 80% for a session", Icon: "🧠",
		Kind:       KindSession,
		sessionMet: func(f SessionFacts) bool { return f.AverageIntensity >= 80 },
	},
	{
		ID: "marathon", Name: "Iron Will", Description: "Session over 45 minutes", Icon: "🏃",
		Kind:       KindSession,
		sessionMet: func(f SessionFacts) bool { return f.DurationMin >= 45 },
	},
	{
		ID: "perfect", Name: "No-Distraction", Description: "Zero interruptions", Icon: "🛡️",
		Kind:       KindSession,
		sessionMet: func(f SessionFacts) bool { return f.Interruptions == 0 },
	},
}

// Catalog returns the static badge definitions.
func Catalog() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// EvaluateBadges returns the ids newly unlocked by a counted session, in
// catalog order. Already-unlocked ids are skipped; the set only grows.
func EvaluateBadges(unlocked []string, stats Stats, facts SessionFacts) []string {
	have := make(map[string]struct{}, len(unlocked))
	for _, id := range unlocked {
		have[id] = struct{}{}
	}
	fresh := []string{}
	for _, badge := range catalog {
		if _, ok := have[badge.ID]; ok {
			continue
		}
		if badge.Met(stats, facts) {
			fresh = append(fresh, badge.ID)
		}
	}
	return fresh
}
