// Package stats contains lifetime statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/mgorbunov/plately/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary condenses lifetime stats into the headline numbers.
type Summary struct {
	GamesPlayed    int
	TotalScore     int
	BestScore      int
	AverageScore   float64
	BestCombo      int
	BestMultiplier float64
	UniquePlates   int
	RareWordsFound int
}

// Summarize computes the headline numbers from lifetime stats.
func Summarize(stats *model.LifetimeStats) Summary {
	s := Summary{
		GamesPlayed:    stats.GamesPlayed,
		TotalScore:     stats.TotalScore,
		BestScore:      stats.BestScore,
		BestCombo:      stats.BestCombo,
		BestMultiplier: stats.BestMultiplier,
		UniquePlates:   len(stats.UniquePlates),
	}
	if stats.GamesPlayed > 0 {
		s.AverageScore = float64(stats.TotalScore) / float64(stats.GamesPlayed)
	}
	for _, words := range stats.RareWordsByTier {
		s.RareWordsFound += len(words)
	}
	return s
}

// ScoreSeries extracts the score history values, optionally limited to the
// most recent n records.
func ScoreSeries(stats *model.LifetimeStats, last int) []float64 {
	history := stats.ScoreHistory
	if last > 0 && len(history) > last {
		history = history[len(history)-last:]
	}
	out := make([]float64, len(history))
	for i, rec := range history {
		out[i] = float64(rec.Score)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// PlateBestRow is one plate's lifetime record prepared for display.
type PlateBestRow struct {
	Letters      string
	Score        int
	RarestWord   string
	PreviousBest int
}

// TopPlates returns up to n plates ordered by best score descending, ties
// broken alphabetically.
func TopPlates(stats *model.LifetimeStats, n int) []PlateBestRow {
	rows := make([]PlateBestRow, 0, len(stats.PerPlateBest))
	for letters, best := range stats.PerPlateBest {
		rows = append(rows, PlateBestRow{
			Letters:      letters,
			Score:        best.Score,
			RarestWord:   best.RarestWord,
			PreviousBest: best.PreviousBest,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score == rows[j].Score {
			return rows[i].Letters < rows[j].Letters
		}
		return rows[i].Score > rows[j].Score
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// RenderSummary prints the headline numbers.
func RenderSummary(w io.Writer, stats *model.LifetimeStats) error {
	s := Summarize(stats)
	if s.GamesPlayed == 0 {
		_, err := fmt.Fprintln(w, "No games played yet.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", s.GamesPlayed),
		fmt.Sprintf("Total Score: %d", s.TotalScore),
		fmt.Sprintf("Best Score: %d", s.BestScore),
		fmt.Sprintf("Avg Score: %.1f", s.AverageScore),
		fmt.Sprintf("Best Combo: %d", s.BestCombo),
		fmt.Sprintf("Best Multiplier: %.2fx", s.BestMultiplier),
		fmt.Sprintf("Plates Seen: %d", s.UniquePlates),
		fmt.Sprintf("Rare Words: %d", s.RareWordsFound),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderScoreCurve prints a sparkline of recent scores with a moving
// average, sized to the given width.
func RenderScoreCurve(w io.Writer, stats *model.LifetimeStats, window, width int) error {
	values := ScoreSeries(stats, width)
	if len(values) == 0 {
		return nil
	}
	smoothed := MovingAverage(values, window)
	if _, err := fmt.Fprintln(w, "Score History"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "raw    %s\n", Sparkline(values)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "smooth %s\n", Sparkline(smoothed)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderPlateBests prints the per-plate records table.
func RenderPlateBests(w io.Writer, stats *model.LifetimeStats, n int) error {
	rows := TopPlates(stats, n)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No plate records yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Plate Bests"); err != nil {
		return err
	}
	headers := []string{"Plate", "Best", "Rarest Word", "Previous"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		prev := "-"
		if r.PreviousBest > 0 {
			prev = fmt.Sprintf("%d", r.PreviousBest)
		}
		tableRows = append(tableRows, []string{
			strings.ToUpper(r.Letters),
			fmt.Sprintf("%d", r.Score),
			r.RarestWord,
			prev,
		})
	}
	rightAlign := map[int]bool{1: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderRareWords prints the rare words collected per difficulty tier.
func RenderRareWords(w io.Writer, stats *model.LifetimeStats) error {
	total := 0
	for _, words := range stats.RareWordsByTier {
		total += len(words)
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "No rare words found yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Rare Words"); err != nil {
		return err
	}
	for _, tier := range model.AllTiers() {
		words := stats.RareWordsByTier[tier]
		if len(words) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", tier.Label(), strings.Join(words, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
