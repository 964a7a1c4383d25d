package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgorbunov/plately/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "plately.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestLoadFreshDatabaseIsEmpty(t *testing.T) {
	st := openTestStore(t)
	stats, err := st.LoadLifetimeStats(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.GamesPlayed != 0 || len(stats.PerPlateBest) != 0 || len(stats.ScoreHistory) != 0 {
		t.Fatalf("fresh stats not empty: %+v", stats)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	stats := model.NewLifetimeStats()
	stats.GamesPlayed = 3
	stats.TotalScore = 210
	stats.BestScore = 120
	stats.BestCombo = 7
	stats.BestMultiplier = 1.25
	stats.UniquePlates["qri"] = struct{}{}
	stats.UniquePlates["ban"] = struct{}{}
	stats.PerPlateBest["qri"] = model.PlateBest{Score: 120, RarestWord: "quiring", PreviousBest: 90}
	stats.ScoreHistory = []model.ScoreRecord{
		{PlayedAt: time.Unix(100, 0).UTC(), Letters: "qri", Score: 90},
		{PlayedAt: time.Unix(200, 0).UTC(), Letters: "qri", Score: 120},
	}
	stats.RareWordsByTier[model.TierHard] = []string{"quiring"}

	if err := st.SaveLifetimeStats(ctx, stats); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := st.LoadLifetimeStats(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GamesPlayed != 3 || loaded.TotalScore != 210 || loaded.BestScore != 120 {
		t.Fatalf("scalar stats mismatch: %+v", loaded)
	}
	if loaded.BestCombo != 7 || loaded.BestMultiplier != 1.25 {
		t.Fatalf("combo/multiplier mismatch: %+v", loaded)
	}
	if len(loaded.UniquePlates) != 2 {
		t.Fatalf("unique plates = %v", loaded.UniquePlates)
	}
	best := loaded.PerPlateBest["qri"]
	if best.Score != 120 || best.RarestWord != "quiring" || best.PreviousBest != 90 {
		t.Fatalf("plate best mismatch: %+v", best)
	}
	if len(loaded.ScoreHistory) != 2 || loaded.ScoreHistory[1].Score != 120 {
		t.Fatalf("score history mismatch: %+v", loaded.ScoreHistory)
	}
	if rare := loaded.RareWordsByTier[model.TierHard]; len(rare) != 1 || rare[0] != "quiring" {
		t.Fatalf("rare words mismatch: %v", rare)
	}
}

func TestPlateBestNeverDecreases(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	high := model.NewLifetimeStats()
	high.PerPlateBest["qri"] = model.PlateBest{Score: 120, RarestWord: "quiring"}
	if err := st.SaveLifetimeStats(ctx, high); err != nil {
		t.Fatalf("save high: %v", err)
	}

	low := model.NewLifetimeStats()
	low.PerPlateBest["qri"] = model.PlateBest{Score: 40, RarestWord: "quarry"}
	if err := st.SaveLifetimeStats(ctx, low); err != nil {
		t.Fatalf("save low: %v", err)
	}

	loaded, err := st.LoadLifetimeStats(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if best := loaded.PerPlateBest["qri"]; best.Score != 120 {
		t.Fatalf("stored best decreased: %+v", best)
	}
}

func TestRareWordsDeduplicatedAcrossSaves(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		stats := model.NewLifetimeStats()
		stats.RareWordsByTier[model.TierImpossible] = []string{"syzygy"}
		if err := st.SaveLifetimeStats(ctx, stats); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	loaded, err := st.LoadLifetimeStats(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rare := loaded.RareWordsByTier[model.TierImpossible]; len(rare) != 1 {
		t.Fatalf("rare words duplicated: %v", rare)
	}
}
