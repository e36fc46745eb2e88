package usecase

import (
	"testing"

	"github.com/rbecker2075/cse312-mergeconflict/internal/stats"
)

func TestUnlockThreshold(t *testing.T) {
	store := stats.NewMemoryStore()
	eval := NewEvaluator(store)

	newly, err := eval.Unlock("alice", PlayerStats{Power: 9})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("unlocked %v below threshold", newly)
	}

	newly, err = eval.Unlock("alice", PlayerStats{Power: 10})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if len(newly) != 1 || newly[0].ID != "power_10" {
		t.Fatalf("newly = %v, want [power_10]", newly)
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	store := stats.NewMemoryStore()
	eval := NewEvaluator(store)

	first, err := eval.Unlock("alice", PlayerStats{Kills: 1})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if len(first) != 1 || first[0].ID != "kills_1" {
		t.Fatalf("first = %v, want [kills_1]", first)
	}

	second, err := eval.Unlock("alice", PlayerStats{Kills: 1})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second = %v, want none (already recorded)", second)
	}
}

func TestUnlockMultipleAtOnce(t *testing.T) {
	store := stats.NewMemoryStore()
	eval := NewEvaluator(store)

	newly, err := eval.Unlock("alice", PlayerStats{Power: 60, Kills: 12})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	got := make(map[string]bool, len(newly))
	for _, a := range newly {
		got[a.ID] = true
	}
	for _, want := range []string{"power_10", "power_50", "kills_1", "kills_10"} {
		if !got[want] {
			t.Errorf("missing unlock %s in %v", want, newly)
		}
	}
	if got["power_100"] || got["kills_50"] {
		t.Errorf("unlocked above actual stats: %v", newly)
	}

	unlocked, _ := store.UnlockedAchievements("alice")
	if len(unlocked) != len(newly) {
		t.Errorf("store has %d unlocks, evaluator returned %d", len(unlocked), len(newly))
	}
}

func TestUnlockAnonymousUser(t *testing.T) {
	eval := NewEvaluator(stats.NewMemoryStore())

	newly, err := eval.Unlock("", PlayerStats{Power: 1000})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if newly != nil {
		t.Fatalf("anonymous unlocks = %v, want none", newly)
	}
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Catalog {
		if seen[a.ID] {
			t.Errorf("duplicate catalog id %s", a.ID)
		}
		seen[a.ID] = true
		if a.Name == "" || a.Description == "" || a.Threshold <= 0 {
			t.Errorf("incomplete catalog entry %+v", a)
		}
	}
}
