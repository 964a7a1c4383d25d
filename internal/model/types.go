// Package model defines shared data structures.
package model

import "time"

// Tier is the difficulty class of a plate, derived from its solution count.
type Tier int

// Difficulty tiers from easiest to hardest.
const (
	TierVeryEasy Tier = iota
	TierEasy
	TierMedium
	TierHard
	TierVeryHard
	TierImpossible
)

// AllTiers returns the tiers in ascending difficulty order.
func AllTiers() []Tier {
	return []Tier{TierVeryEasy, TierEasy, TierMedium, TierHard, TierVeryHard, TierImpossible}
}

// Label returns a human-readable name for the tier.
func (t Tier) Label() string {
	switch t {
	case TierVeryEasy:
		return "Very Easy"
	case TierEasy:
		return "Easy"
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	case TierVeryHard:
		return "Very Hard"
	case TierImpossible:
		return "Impossible"
	default:
		return "Unknown"
	}
}

// Key returns a stable lowercase identifier used for persistence.
func (t Tier) Key() string {
	switch t {
	case TierVeryEasy:
		return "very_easy"
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	case TierVeryHard:
		return "very_hard"
	case TierImpossible:
		return "impossible"
	default:
		return "unknown"
	}
}

// TierFromKey parses a persisted tier key. Unknown keys map to TierMedium.
func TierFromKey(key string) Tier {
	for _, t := range AllTiers() {
		if t.Key() == key {
			return t
		}
	}
	return TierMedium
}

// TierForSolutionCount derives a tier from the number of valid words a plate
// has in the dataset. Fewer solutions means harder.
func TierForSolutionCount(count int) Tier {
	switch {
	case count >= 800:
		return TierVeryEasy
	case count >= 300:
		return TierEasy
	case count >= 100:
		return TierMedium
	case count >= 30:
		return TierHard
	case count >= 10:
		return TierVeryHard
	default:
		return TierImpossible
	}
}

// Plate is a three-letter ordered target sequence. Identity is the letter
// sequence; Used mutates per session as the catalog hands plates out.
type Plate struct {
	Letters       string
	SolutionCount int
	Tier          Tier
	Used          bool
}

// PlaceholderPlate is returned when the catalog cannot serve a real plate
// (dataset still loading, empty catalog). Callers render it like any other.
var PlaceholderPlate = Plate{Letters: "aaa", SolutionCount: 0, Tier: TierVeryEasy}

// Word is a dictionary entry. Immutable once loaded; the list-valued fields
// are always normalized to slices at the dataset boundary.
type Word struct {
	ID          string
	Text        string
	Frequency   float64
	Vocabulary  int
	Orthography int
	Definitions []string
	Synonyms    []string
	Rhymes      []string
}

// Solution pairs a word with its plate-specific information score in
// ensemble mode. Found mutates as the player submits words.
type Solution struct {
	WordID      string
	Information int
	Found       bool
}

// GameMode selects between the live scoring model and the precomputed
// ensemble model.
type GameMode int

// Game modes.
const (
	ModeLive GameMode = iota
	ModeEnsemble
)

// Config defines game settings resolved from flags and the config file.
type Config struct {
	Lang         string
	Mode         GameMode
	RoundSeconds int
	MinWordLen   int
	HintDelaySec int
	HintEverySec int
}

// PlateBest is the lifetime record for a single plate.
type PlateBest struct {
	Score        int
	RarestWord   string
	PreviousBest int
}

// ScoreRecord is one entry of the append-only score history.
type ScoreRecord struct {
	PlayedAt time.Time
	Letters  string
	Score    int
}

// LifetimeStats accumulates across sessions and is persisted by the store.
type LifetimeStats struct {
	GamesPlayed     int
	TotalScore      int
	BestScore       int
	BestCombo       int
	BestMultiplier  float64
	UniquePlates    map[string]struct{}
	PerPlateBest    map[string]PlateBest
	ScoreHistory    []ScoreRecord
	RareWordsByTier map[Tier][]string
}

// NewLifetimeStats returns empty stats with all maps allocated.
func NewLifetimeStats() *LifetimeStats {
	return &LifetimeStats{
		UniquePlates:    map[string]struct{}{},
		PerPlateBest:    map[string]PlateBest{},
		RareWordsByTier: map[Tier][]string{},
	}
}

// StatsConfig defines filters for lifetime stats output.
type StatsConfig struct {
	Last int
}
