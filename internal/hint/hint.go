// Package hint produces useful-but-not-answer-revealing cues for the
// active plate.
package hint

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/rules"
)

const (
	// sampleDraws bounds the random sampling per hint. Candidate pools can
	// be large; a best-of-k sample keeps hint generation constant time.
	sampleDraws = 5
	// maxDefinitionLen rejects definitions too long to read at a glance.
	maxDefinitionLen = 90
)

type category int

const (
	categoryLexical category = iota
	categorySemantic
	categoryPhonetic
)

// Engine generates hints from the set of still-findable words.
type Engine struct {
	rnd      *rand.Rand
	dictSize int
}

// New returns an Engine seeded with the current time. dictSize is the total
// dictionary size used for coverage hints.
func New(dictSize int) *Engine {
	return NewWithRand(dictSize, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns an Engine with an injected random source so tests can
// assert exact hint selection.
func NewWithRand(dictSize int, rnd *rand.Rand) *Engine {
	return &Engine{rnd: rnd, dictSize: dictSize}
}

// Next produces one hint for the plate from the remaining candidates, or an
// empty string when no hint can be formed. Semantic and phonetic hints fall
// back to the lexical category when nothing qualifies; lexical hints are
// always available, so a non-empty candidate set always yields a hint.
func (e *Engine) Next(candidates []model.Word, plate model.Plate) string {
	if e.dictSize == 0 {
		return ""
	}
	switch category(e.rnd.Intn(3)) {
	case categorySemantic:
		if h := e.semantic(candidates, plate); h != "" {
			return h
		}
	case categoryPhonetic:
		if h := e.phonetic(candidates, plate); h != "" {
			return h
		}
	}
	return e.lexical(candidates, plate)
}

// lexical hints describe the candidate pool rather than any single word.
func (e *Engine) lexical(candidates []model.Word, plate model.Plate) string {
	switch e.rnd.Intn(3) {
	case 0:
		pct := float64(len(candidates)) / float64(e.dictSize) * 100
		return fmt.Sprintf("%.1f%% of the dictionary still fits this plate", pct)
	case 1:
		return fmt.Sprintf("this plate is rated %s", plate.Tier.Label())
	default:
		rare := 0
		for _, w := range candidates {
			if w.Frequency == 0 {
				rare++
			}
		}
		return fmt.Sprintf("%d ultra-rare words are still out there", rare)
	}
}

// semantic returns the shortest acceptable definition or synonym across a
// bounded random sample. Definitions and synonyms that would themselves
// solve the plate are filtered out so a hint never hands over an answer.
func (e *Engine) semantic(candidates []model.Word, plate model.Plate) string {
	best := ""
	bestIsSynonym := false
	for _, w := range e.sample(candidates) {
		for _, def := range w.Definitions {
			if def == "" || len(def) > maxDefinitionLen || rules.IsOrderedSubsequence(def, plate.Letters) {
				continue
			}
			if best == "" || len(def) < len(best) {
				best = def
				bestIsSynonym = false
			}
		}
		for _, syn := range w.Synonyms {
			if syn == "" || rules.IsOrderedSubsequence(syn, plate.Letters) {
				continue
			}
			if best == "" || len(syn) < len(best) {
				best = syn
				bestIsSynonym = true
			}
		}
	}
	if best == "" {
		return ""
	}
	if bestIsSynonym {
		return fmt.Sprintf("similar to %q", best)
	}
	return fmt.Sprintf("means: %s", best)
}

// phonetic returns the shortest rhyme that does not itself match the plate.
func (e *Engine) phonetic(candidates []model.Word, plate model.Plate) string {
	best := ""
	for _, w := range e.sample(candidates) {
		for _, rhyme := range w.Rhymes {
			if rhyme == "" || rules.IsOrderedSubsequence(rhyme, plate.Letters) {
				continue
			}
			if best == "" || len(rhyme) < len(best) {
				best = rhyme
			}
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("rhymes with %q", best)
}

// sample draws up to sampleDraws candidates with replacement.
func (e *Engine) sample(candidates []model.Word) []model.Word {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]model.Word, 0, sampleDraws)
	for i := 0; i < sampleDraws; i++ {
		out = append(out, candidates[e.rnd.Intn(len(candidates))])
	}
	return out
}
