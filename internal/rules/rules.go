// Package rules validates word submissions against the active plate.
package rules

import (
	"strings"

	"github.com/mgorbunov/plately/internal/model"
)

// Verdict classifies a submission. Every verdict other than VerdictOK breaks
// the combo streak.
type Verdict int

// Submission verdicts.
const (
	VerdictOK Verdict = iota
	VerdictTooShort
	VerdictNotInDictionary
	VerdictPlateMismatch
	VerdictAlreadyUsed
	VerdictNotReady
)

// Message returns a short user-facing description of the verdict.
func (v Verdict) Message() string {
	switch v {
	case VerdictOK:
		return "nice!"
	case VerdictTooShort:
		return "too short"
	case VerdictNotInDictionary:
		return "not in dictionary"
	case VerdictPlateMismatch:
		return "letters not in order"
	case VerdictAlreadyUsed:
		return "already used"
	case VerdictNotReady:
		return "still loading, hang on"
	default:
		return "invalid"
	}
}

// Dictionary is the word lookup the validator reads. The dataset package
// implements it.
type Dictionary interface {
	Lookup(word string) (model.Word, bool)
}

// IsOrderedSubsequence reports whether the plate letters occur in word in
// order, case-insensitively, with arbitrary gaps. Two-pointer scan over the
// word, O(len(word)).
func IsOrderedSubsequence(word, plate string) bool {
	word = strings.ToLower(word)
	plate = strings.ToLower(plate)
	pi := 0
	for wi := 0; wi < len(word) && pi < len(plate); wi++ {
		if word[wi] == plate[pi] {
			pi++
		}
	}
	return pi == len(plate)
}

// Validator gates word submissions for a round.
type Validator struct {
	dict   Dictionary
	minLen int
}

// NewValidator constructs a Validator. minLen below 1 defaults to 1.
func NewValidator(dict Dictionary, minLen int) *Validator {
	if minLen < 1 {
		minLen = 1
	}
	return &Validator{dict: dict, minLen: minLen}
}

// Check validates a submission against the plate and the round's used set.
// The returned Word is only meaningful when the verdict is VerdictOK.
func (v *Validator) Check(word, plateLetters string, used map[string]struct{}) (model.Word, Verdict) {
	word = strings.ToLower(strings.TrimSpace(word))
	if v.dict == nil {
		return model.Word{}, VerdictNotReady
	}
	if len(word) < v.minLen {
		return model.Word{}, VerdictTooShort
	}
	entry, ok := v.dict.Lookup(word)
	if !ok {
		return model.Word{}, VerdictNotInDictionary
	}
	if !IsOrderedSubsequence(word, plateLetters) {
		return model.Word{}, VerdictPlateMismatch
	}
	if _, seen := used[word]; seen {
		return model.Word{}, VerdictAlreadyUsed
	}
	return entry, VerdictOK
}
