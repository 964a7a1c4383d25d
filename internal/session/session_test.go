package session

import (
	"testing"
	"time"

	"github.com/mgorbunov/plately/internal/model"
)

var plateQRI = model.Plate{Letters: "qri", SolutionCount: 40, Tier: model.TierHard}

func word(text string, freq float64) model.Word {
	return model.Word{ID: text, Text: text, Frequency: freq}
}

func TestLiveRoundScoring(t *testing.T) {
	s := New(plateQRI)
	s.AddValid(word("quarry", 0.001), 0)
	s.AddValid(word("quira", 0.0001), 0)
	s.AddValid(word("quiring", 0.00001), 0)
	snap := s.Snapshot()
	if snap.BasePoints != 30 {
		t.Fatalf("base points = %d, want 30", snap.BasePoints)
	}
	if snap.Combo != 3 || snap.ComboPoints != 5 {
		t.Fatalf("combo = %d/%d, want 3/5", snap.Combo, snap.ComboPoints)
	}
	if snap.Multiplier != 1.25 {
		t.Fatalf("multiplier = %.2f, want 1.25", snap.Multiplier)
	}

	stats := model.NewLifetimeStats()
	got := s.Finalize(stats, time.Unix(0, 0))
	want := 44 // round((30 + 5) * 1.25) = 43.75
	if got != want {
		t.Fatalf("final score = %d, want %d", got, want)
	}
	if stats.GamesPlayed != 1 || stats.TotalScore != want || stats.BestScore != want {
		t.Fatalf("lifetime not updated: %+v", stats)
	}
	if stats.BestCombo != 3 {
		t.Fatalf("best combo = %d, want 3", stats.BestCombo)
	}
	if _, ok := stats.UniquePlates["qri"]; !ok {
		t.Fatalf("plate not recorded in unique plates")
	}
	best := stats.PerPlateBest["qri"]
	if best.Score != want || best.RarestWord != "quiring" {
		t.Fatalf("per-plate best = %+v", best)
	}
	if len(stats.ScoreHistory) != 1 || stats.ScoreHistory[0].Score != want {
		t.Fatalf("score history = %+v", stats.ScoreHistory)
	}
	rare := stats.RareWordsByTier[model.TierHard]
	if len(rare) != 1 || rare[0] != "quiring" {
		t.Fatalf("rare words = %v", rare)
	}
}

func TestInvalidSubmissionBreaksStreak(t *testing.T) {
	s := New(plateQRI)
	s.AddValid(word("quarry", 0.01), 0)
	s.AddValid(word("query", 0.01), 0)
	s.AddInvalid()
	snap := s.Snapshot()
	if snap.Combo != 0 || snap.ComboPoints != 0 {
		t.Fatalf("streak not reset: %+v", snap)
	}
	if snap.BankedPoints != 2 {
		t.Fatalf("banked = %d, want 2", snap.BankedPoints)
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	s := New(plateQRI)
	s.AddValid(word("quarry", 0.01), 0)
	stats := model.NewLifetimeStats()
	first := s.Finalize(stats, time.Unix(0, 0))
	second := s.Finalize(stats, time.Unix(0, 0))
	if first != second {
		t.Fatalf("finalize not idempotent: %d then %d", first, second)
	}
	if stats.GamesPlayed != 1 {
		t.Fatalf("second finalize merged again: games=%d", stats.GamesPlayed)
	}
	// Mutations after finalize are ignored.
	if pts := s.AddValid(word("query", 0.01), 0); pts != 0 {
		t.Fatalf("AddValid after finalize returned %d points", pts)
	}
}

func TestPerPlateBestMonotonic(t *testing.T) {
	stats := model.NewLifetimeStats()

	s1 := New(plateQRI)
	for i := 0; i < 5; i++ {
		s1.AddValid(word("quarry", 0.01), 0)
	}
	high := s1.Finalize(stats, time.Unix(0, 0))

	s2 := New(plateQRI)
	s2.AddValid(word("quarry", 0.01), 0)
	low := s2.Finalize(stats, time.Unix(1, 0))

	if low >= high {
		t.Fatalf("test setup: low %d should be below high %d", low, high)
	}
	best := stats.PerPlateBest["qri"]
	if best.Score != high {
		t.Fatalf("per-plate best decreased: %+v", best)
	}

	s3 := New(plateQRI)
	for i := 0; i < 9; i++ {
		s3.AddValid(word("quarry", 0.01), 0)
	}
	higher := s3.Finalize(stats, time.Unix(2, 0))
	best = stats.PerPlateBest["qri"]
	if best.Score != higher || best.PreviousBest != high {
		t.Fatalf("expected new best %d with previous %d, got %+v", higher, high, best)
	}
}

func TestRareWordsDeduplicated(t *testing.T) {
	stats := model.NewLifetimeStats()
	for i := 0; i < 3; i++ {
		s := New(plateQRI)
		s.AddValid(word("quiring", 0), 0)
		s.Finalize(stats, time.Unix(int64(i), 0))
	}
	rare := stats.RareWordsByTier[model.TierHard]
	if len(rare) != 1 {
		t.Fatalf("rare words duplicated: %v", rare)
	}
}

func TestEnsembleSessionAccumulates(t *testing.T) {
	solutions := map[string]*model.Solution{
		"quarantine": {WordID: "w1", Information: 67},
		"quiring":    {WordID: "w2", Information: 80},
	}
	s := NewEnsemble(plateQRI, solutions)
	pts := s.AddValid(model.Word{Text: "quarantine", Vocabulary: 78, Orthography: 42}, 67)
	if pts != 62 {
		t.Fatalf("ensemble points = %d, want 62", pts)
	}
	if !solutions["quarantine"].Found {
		t.Fatalf("solution not marked found")
	}
	snap := s.Snapshot()
	if snap.SolutionsFound != 1 || snap.SolutionsTotal != 2 {
		t.Fatalf("found/total = %d/%d, want 1/2", snap.SolutionsFound, snap.SolutionsTotal)
	}
	if snap.Score != 62 {
		t.Fatalf("score = %d, want 62", snap.Score)
	}
	stats := model.NewLifetimeStats()
	if got := s.Finalize(stats, time.Unix(0, 0)); got != 62 {
		t.Fatalf("final = %d, want 62", got)
	}
}
