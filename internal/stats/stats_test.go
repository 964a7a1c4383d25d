package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mgorbunov/plately/internal/model"
)

func sampleStats() *model.LifetimeStats {
	stats := model.NewLifetimeStats()
	stats.GamesPlayed = 4
	stats.TotalScore = 200
	stats.BestScore = 90
	stats.BestCombo = 6
	stats.BestMultiplier = 1.5
	stats.UniquePlates["qri"] = struct{}{}
	stats.UniquePlates["ban"] = struct{}{}
	stats.PerPlateBest["qri"] = model.PlateBest{Score: 90, RarestWord: "quiring", PreviousBest: 40}
	stats.PerPlateBest["ban"] = model.PlateBest{Score: 30, RarestWord: "banana"}
	stats.ScoreHistory = []model.ScoreRecord{
		{PlayedAt: time.Unix(1, 0), Letters: "qri", Score: 40},
		{PlayedAt: time.Unix(2, 0), Letters: "ban", Score: 30},
		{PlayedAt: time.Unix(3, 0), Letters: "qri", Score: 90},
		{PlayedAt: time.Unix(4, 0), Letters: "qri", Score: 40},
	}
	stats.RareWordsByTier[model.TierHard] = []string{"quiring", "quira"}
	return stats
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleStats())
	if s.GamesPlayed != 4 || s.TotalScore != 200 || s.BestScore != 90 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.AverageScore != 50 {
		t.Fatalf("average = %.1f, want 50", s.AverageScore)
	}
	if s.UniquePlates != 2 || s.RareWordsFound != 2 {
		t.Fatalf("plates/rare = %d/%d, want 2/2", s.UniquePlates, s.RareWordsFound)
	}
}

func TestScoreSeriesLimitsToLast(t *testing.T) {
	got := ScoreSeries(sampleStats(), 2)
	if len(got) != 2 || got[0] != 90 || got[1] != 40 {
		t.Fatalf("series = %v, want [90 40]", got)
	}
	all := ScoreSeries(sampleStats(), 0)
	if len(all) != 4 {
		t.Fatalf("unlimited series length = %d, want 4", len(all))
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("moving average = %v, want %v", got, want)
		}
	}
}

func TestSparklineFlatAndSloped(t *testing.T) {
	flat := Sparkline([]float64{5, 5, 5})
	if len(flat) != 3 {
		t.Fatalf("flat sparkline length = %d", len(flat))
	}
	sloped := Sparkline([]float64{0, 100})
	if sloped[0] == sloped[1] {
		t.Fatalf("sloped sparkline should vary: %q", sloped)
	}
}

func TestTopPlatesOrdering(t *testing.T) {
	rows := TopPlates(sampleStats(), 0)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Letters != "qri" || rows[1].Letters != "ban" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	limited := TopPlates(sampleStats(), 1)
	if len(limited) != 1 || limited[0].Letters != "qri" {
		t.Fatalf("limit not applied: %+v", limited)
	}
}

func TestRenderSummaryIncludesHeadlines(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleStats()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Games: 4", "Best Score: 90", "Best Combo: 6", "Plates Seen: 2"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("summary missing %q:\n%s", needle, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, model.NewLifetimeStats()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No games played yet.") {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}

func TestRenderPlateBestsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPlateBests(&buf, sampleStats(), 0); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "QRI") || !strings.Contains(out, "quiring") {
		t.Fatalf("table missing plate row:\n%s", out)
	}
	// ban has no previous best, shown as a dash.
	if !strings.Contains(out, "-") {
		t.Fatalf("expected dash for missing previous best:\n%s", out)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Plate", "Best", "Word"}
	rows := [][]string{
		{"QRI", "120", "quiring"},
		{"BAN", "9", "banana"},
	}
	rightAlign := map[int]bool{1: true}
	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Plate Best Word   " {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "QRI    120 quiring" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "BAN      9 banana " {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderRareWordsGroupsByTier(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRareWords(&buf, sampleStats()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Hard: quiring, quira") {
		t.Fatalf("rare words output:\n%s", buf.String())
	}
}
