package domain_test

import (
	"testing"

	"forge/internal/modules/progression/domain"
)

func TestCatalogHasFiveTaggedBadges(t *testing.T) {
	t.Parallel()
	badges := domain.Catalog()
	if len(badges) != 5 {
		t.Fatalf("expected 5 badges, got %d", len(badges))
	}
	kinds := map[string]domain.ConditionKind{}
	for _, b := range badges {
		if b.Kind != domain.KindStats && b.Kind != domain.KindSession {
			t.Fatalf("badge %s has untagged condition", b.ID)
		}
		kinds[b.ID] = b.Kind
	}
	if kinds["streak_3"] != domain.KindStats || kinds["streak_7"] != domain.KindStats {
		t.Fatalf("streak badges must read stats: %+v", kinds)
	}
	if kinds["deep_focus"] != domain.KindSession || kinds["marathon"] != domain.KindSession || kinds["perfect"] != domain.KindSession {
		t.Fatalf("session badges must read the session record: %+v", kinds)
	}
}

func TestEvaluateBadgesTripleUnlock(t *testing.T) {
	t.Parallel()
	stats := domain.Stats{CurrentStreak: 1}
	facts := domain.SessionFacts{DurationMin: 50, AverageIntensity: 85, Interruptions: 0}
	fresh := domain.EvaluateBadges(nil, stats, facts)
	want := map[string]bool{"deep_focus": true, "marathon": true, "perfect": true}
	if len(fresh) != 3 {
		t.Fatalf("expected 3 unlocks, got %v", fresh)
	}
	for _, id := range fresh {
		if !want[id] {
			t.Fatalf("unexpected unlock %s", id)
		}
	}
}

func TestEvaluateBadgesIsIdempotent(t *testing.T) {
	t.Parallel()
	stats := domain.Stats{CurrentStreak: 3}
	facts := domain.SessionFacts{DurationMin: 10, AverageIntensity: 20, Interruptions: 2}
	first := domain.EvaluateBadges(nil, stats, facts)
	if len(first) != 1 || first[0] != "streak_3" {
		t.Fatalf("expected streak_3, got %v", first)
	}
	again := domain.EvaluateBadges(first, stats, facts)
	if len(again) != 0 {
		t.Fatalf("already unlocked badge re-evaluated: %v", again)
	}
}

func TestEvaluateBadgesZeroValueStats(t *testing.T) {
	t.Parallel()
	// Missing numeric fields behave as zero and never panic.
	fresh := domain.EvaluateBadges(nil, domain.Stats{}, domain.SessionFacts{})
	if len(fresh) != 1 || fresh[0] != "perfect" {
		t.Fatalf("zero interruptions still satisfies perfect: %v", fresh)
	}
}
