// Package scoring implements the live combo/rarity model and the
// precomputed ensemble model.
package scoring

import "math"

// pointsPerWord is the flat base award for every valid submission.
const pointsPerWord = 10

// Tally is the live scoring state for one round. Valid submissions grow the
// streak; any invalid submission banks the streak's points and resets it.
type Tally struct {
	BasePoints   int
	Combo        int
	ComboPoints  int
	BankedPoints int

	bestCombo  int
	rarestFreq float64
	rarestWord string
	hasRarest  bool
}

// AddValid records a valid submission: flat base points, streak growth, and
// rarity tracking. The first word of a streak banks no combo bonus; each
// later consecutive word adds the current streak length.
func (t *Tally) AddValid(word string, frequency float64) {
	t.BasePoints += pointsPerWord
	t.Combo++
	if t.Combo > 1 {
		t.ComboPoints += t.Combo
	}
	if t.Combo > t.bestCombo {
		t.bestCombo = t.Combo
	}
	if !t.hasRarest || frequency < t.rarestFreq {
		t.hasRarest = true
		t.rarestFreq = frequency
		t.rarestWord = word
	}
}

// BreakStreak banks the streak's uncommitted points and resets the counter.
// Already-earned combo points are preserved in the bank.
func (t *Tally) BreakStreak() {
	t.BankedPoints += t.ComboPoints
	t.Combo = 0
	t.ComboPoints = 0
}

// BestCombo reports the longest streak seen this round.
func (t *Tally) BestCombo() int {
	return t.bestCombo
}

// RarestWord reports the lowest-frequency word found this round, with its
// frequency. ok is false before the first valid submission.
func (t *Tally) RarestWord() (word string, frequency float64, ok bool) {
	return t.rarestWord, t.rarestFreq, t.hasRarest
}

// Multiplier is 1 plus the rarity bonus for the rarest word found so far.
func (t *Tally) Multiplier() float64 {
	if !t.hasRarest {
		return 1.0
	}
	return 1.0 + RarityBonus(t.rarestFreq)
}

// Score is the running plate score: committed points times the rarity
// multiplier. The live streak's uncommitted points are not included until
// the streak banks.
func (t *Tally) Score() int {
	return int(math.Round(float64(t.BasePoints+t.BankedPoints) * t.Multiplier()))
}

// Finalize banks any live streak and returns the final plate score. Safe to
// call repeatedly; later calls return the same value.
func (t *Tally) Finalize() int {
	t.BreakStreak()
	return t.Score()
}

// RarityBonus maps a corpus frequency to its multiplicative bonus. Tiers use
// inclusive lower bounds, so a frequency of exactly 0.0001 lands in the
// +0.10 tier. A frequency of 0 marks an unattested word and takes the top
// bonus.
func RarityBonus(frequency float64) float64 {
	switch {
	case frequency >= 0.01:
		return 0.00
	case frequency >= 0.001:
		return 0.05
	case frequency >= 0.0001:
		return 0.10
	case frequency >= 0.00001:
		return 0.25
	case frequency >= 0.000001:
		return 0.50
	case frequency >= 0.0000001:
		return 0.75
	default:
		return 1.00
	}
}

// EnsembleScore averages the three precomputed component scores for a
// word-plate pair, rounded to the nearest integer.
func EnsembleScore(vocabulary, information, orthography int) int {
	return int(math.Round(float64(vocabulary+information+orthography) / 3.0))
}
