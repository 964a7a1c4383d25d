// Package session holds round-scoped game state and folds finished rounds
// into lifetime statistics.
package session

import (
	"time"

	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/scoring"
)

type state int

const (
	stateActive state = iota
	stateIdle
)

type rareSlot struct {
	word string
	freq float64
}

// Session is the mutable state of one active round. It is created at round
// start and finalized exactly once at round end or plate change.
type Session struct {
	plate model.Plate
	mode  model.GameMode
	state state

	used      map[string]struct{}
	foundList []string
	tally     scoring.Tally
	rarest    map[model.Tier]rareSlot

	solutions      map[string]*model.Solution
	ensemblePoints int
	finalScore     int
}

// Snapshot is a read-only view of a session for presentation.
type Snapshot struct {
	Plate          model.Plate
	Mode           model.GameMode
	Found          []string
	BasePoints     int
	Combo          int
	ComboPoints    int
	BankedPoints   int
	Multiplier     float64
	Score          int
	EnsemblePoints int
	SolutionsFound int
	SolutionsTotal int
}

// New starts a live-model session for the plate.
func New(plate model.Plate) *Session {
	return &Session{
		plate:  plate,
		mode:   model.ModeLive,
		state:  stateActive,
		used:   map[string]struct{}{},
		rarest: map[model.Tier]rareSlot{},
	}
}

// NewEnsemble starts an ensemble-model session against the plate's
// enumerated solutions, keyed by word text.
func NewEnsemble(plate model.Plate, solutions map[string]*model.Solution) *Session {
	s := New(plate)
	s.mode = model.ModeEnsemble
	s.solutions = solutions
	return s
}

// Plate returns the plate this session plays against.
func (s *Session) Plate() model.Plate {
	return s.plate
}

// Active reports whether the session has not yet been finalized.
func (s *Session) Active() bool {
	return s.state == stateActive
}

// Used returns the set of words accepted this round.
func (s *Session) Used() map[string]struct{} {
	return s.used
}

// Solution returns the plate-scoped solution entry for a word in ensemble
// mode, or nil when the word is not among the enumerated solutions.
func (s *Session) Solution(text string) *model.Solution {
	return s.solutions[text]
}

// Solutions exposes the ensemble solution map, keyed by word text. Nil in
// live mode.
func (s *Session) Solutions() map[string]*model.Solution {
	return s.solutions
}

// AddValid records an accepted word and returns the points it contributed.
// infoScore is the plate-specific information score in ensemble mode and is
// ignored in live mode.
func (s *Session) AddValid(w model.Word, infoScore int) int {
	if s.state != stateActive {
		return 0
	}
	s.used[w.Text] = struct{}{}
	s.foundList = append(s.foundList, w.Text)

	if s.mode == model.ModeEnsemble {
		pts := scoring.EnsembleScore(w.Vocabulary, infoScore, w.Orthography)
		s.ensemblePoints += pts
		if sol, ok := s.solutions[w.Text]; ok {
			sol.Found = true
		}
		return pts
	}

	before := s.tally.Score()
	s.tally.AddValid(w.Text, w.Frequency)
	slot, ok := s.rarest[s.plate.Tier]
	if !ok || w.Frequency < slot.freq {
		s.rarest[s.plate.Tier] = rareSlot{word: w.Text, freq: w.Frequency}
	}
	return s.tally.Score() - before
}

// AddInvalid records a rejected submission, breaking the combo streak.
func (s *Session) AddInvalid() {
	if s.state != stateActive {
		return
	}
	if s.mode == model.ModeLive {
		s.tally.BreakStreak()
	}
}

// Score is the running score for the round.
func (s *Session) Score() int {
	if s.state != stateActive {
		return s.finalScore
	}
	if s.mode == model.ModeEnsemble {
		return s.ensemblePoints
	}
	return s.tally.Score()
}

// Snapshot builds a presentation view of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Plate:          s.plate,
		Mode:           s.mode,
		Found:          append([]string(nil), s.foundList...),
		BasePoints:     s.tally.BasePoints,
		Combo:          s.tally.Combo,
		ComboPoints:    s.tally.ComboPoints,
		BankedPoints:   s.tally.BankedPoints,
		Multiplier:     s.tally.Multiplier(),
		Score:          s.Score(),
		EnsemblePoints: s.ensemblePoints,
	}
	if s.mode == model.ModeEnsemble {
		snap.SolutionsTotal = len(s.solutions)
		for _, sol := range s.solutions {
			if sol.Found {
				snap.SolutionsFound++
			}
		}
	}
	return snap
}

// Finalize ends the round, banks any live streak, and merges the round into
// the lifetime stats. Calling it a second time is a no-op returning the
// already-computed score.
func (s *Session) Finalize(stats *model.LifetimeStats, now time.Time) int {
	if s.state != stateActive {
		return s.finalScore
	}
	s.state = stateIdle

	if s.mode == model.ModeEnsemble {
		s.finalScore = s.ensemblePoints
	} else {
		s.finalScore = s.tally.Finalize()
	}
	if stats != nil {
		s.mergeInto(stats, now)
	}
	return s.finalScore
}

func (s *Session) mergeInto(stats *model.LifetimeStats, now time.Time) {
	stats.GamesPlayed++
	stats.TotalScore += s.finalScore
	if s.finalScore > stats.BestScore {
		stats.BestScore = s.finalScore
	}
	if s.mode == model.ModeLive {
		if best := s.tally.BestCombo(); best > stats.BestCombo {
			stats.BestCombo = best
		}
		if mult := s.tally.Multiplier(); mult > stats.BestMultiplier {
			stats.BestMultiplier = mult
		}
	}
	stats.UniquePlates[s.plate.Letters] = struct{}{}

	rarestWord, _, _ := s.tally.RarestWord()
	prev, seen := stats.PerPlateBest[s.plate.Letters]
	if !seen {
		stats.PerPlateBest[s.plate.Letters] = model.PlateBest{
			Score:      s.finalScore,
			RarestWord: rarestWord,
		}
	} else if s.finalScore > prev.Score {
		stats.PerPlateBest[s.plate.Letters] = model.PlateBest{
			Score:        s.finalScore,
			RarestWord:   rarestWord,
			PreviousBest: prev.Score,
		}
	}

	stats.ScoreHistory = append(stats.ScoreHistory, model.ScoreRecord{
		PlayedAt: now,
		Letters:  s.plate.Letters,
		Score:    s.finalScore,
	})

	for tier, slot := range s.rarest {
		if slot.word == "" {
			continue
		}
		if !containsWord(stats.RareWordsByTier[tier], slot.word) {
			stats.RareWordsByTier[tier] = append(stats.RareWordsByTier[tier], slot.word)
		}
	}
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
