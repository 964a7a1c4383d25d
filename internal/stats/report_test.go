package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/store"
)

func TestBuildReport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "plately.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	stats := model.NewLifetimeStats()
	stats.GamesPlayed = 2
	stats.TotalScore = 100
	stats.BestScore = 70
	stats.UniquePlates["qri"] = struct{}{}
	stats.PerPlateBest["qri"] = model.PlateBest{Score: 70, RarestWord: "quiring"}
	stats.ScoreHistory = []model.ScoreRecord{
		{PlayedAt: time.Unix(1, 0).UTC(), Letters: "qri", Score: 30},
		{PlayedAt: time.Unix(2, 0).UTC(), Letters: "qri", Score: 70},
	}
	if err := st.SaveLifetimeStats(ctx, stats); err != nil {
		t.Fatalf("save: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 10})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Summary.GamesPlayed != 2 || report.Summary.BestScore != 70 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.TopPlates) != 1 || report.TopPlates[0].Letters != "qri" {
		t.Fatalf("unexpected top plates: %+v", report.TopPlates)
	}
	if len(report.ScoreCurve) != 2 || report.ScoreCurve[1] != 70 {
		t.Fatalf("unexpected score curve: %v", report.ScoreCurve)
	}
}
