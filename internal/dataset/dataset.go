// Package dataset loads and normalizes the plate and word data the game
// plays against.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/rules"
)

// File names inside a per-language dataset directory.
const (
	wordsFile     = "words.json"
	platesFile    = "plates.json"
	solutionsFile = "solutions.json"
)

// Dataset is the fully loaded, normalized game data. Immutable after Load.
type Dataset struct {
	Lang   string
	Plates []model.Plate

	byText map[string]model.Word
	byID   map[string]model.Word
	// solutions maps plate letters to word id to information score.
	solutions map[string]map[string]int
}

// Load reads a language dataset from dir. The solutions file is optional;
// without it only live mode is playable.
func Load(dir, lang string) (*Dataset, error) {
	base := filepath.Join(dir, lang)
	d := &Dataset{
		Lang:      lang,
		byText:    map[string]model.Word{},
		byID:      map[string]model.Word{},
		solutions: map[string]map[string]int{},
	}
	if err := d.loadWords(filepath.Join(base, wordsFile)); err != nil {
		return nil, fmt.Errorf("failed to load words: %w", err)
	}
	if err := d.loadPlates(filepath.Join(base, platesFile)); err != nil {
		return nil, fmt.Errorf("failed to load plates: %w", err)
	}
	if err := d.loadSolutions(filepath.Join(base, solutionsFile)); err != nil {
		return nil, fmt.Errorf("failed to load solutions: %w", err)
	}
	return d, nil
}

// Lookup finds a word by its canonical lowercase text. Implements the
// validator's Dictionary.
func (d *Dataset) Lookup(word string) (model.Word, bool) {
	w, ok := d.byText[strings.ToLower(word)]
	return w, ok
}

// Size is the total dictionary size, used by coverage hints.
func (d *Dataset) Size() int {
	return len(d.byText)
}

// Candidates returns the still-findable words for the plate: dictionary
// words matching the plate as an ordered subsequence, minus the round's
// used set. Deterministic order for tests.
func (d *Dataset) Candidates(plateLetters string, used map[string]struct{}) []model.Word {
	var out []model.Word
	for text, w := range d.byText {
		if _, seen := used[text]; seen {
			continue
		}
		if rules.IsOrderedSubsequence(text, plateLetters) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}

// Solutions builds a fresh found-tracking map for a plate's enumerated
// solutions, keyed by word text. Returns nil when the dataset carries no
// solution map for the plate.
func (d *Dataset) Solutions(plateLetters string) map[string]*model.Solution {
	byID, ok := d.solutions[strings.ToLower(plateLetters)]
	if !ok {
		return nil
	}
	out := make(map[string]*model.Solution, len(byID))
	for id, info := range byID {
		w, ok := d.byID[id]
		if !ok {
			continue
		}
		out[w.Text] = &model.Solution{WordID: id, Information: info}
	}
	return out
}

func (d *Dataset) loadWords(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s is not valid JSON", path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%s: expected an object keyed by word id", path)
	}
	root.ForEach(func(key, value gjson.Result) bool {
		text := strings.ToLower(value.Get("word").String())
		if text == "" {
			return true
		}
		w := model.Word{
			ID:          key.String(),
			Text:        text,
			Frequency:   value.Get("frequency").Float(),
			Vocabulary:  int(value.Get("vocabulary").Int()),
			Orthography: int(value.Get("orthography").Int()),
			Definitions: normalizeList(value.Get("definitions")),
			Synonyms:    normalizeList(value.Get("synonyms")),
			Rhymes:      normalizeList(value.Get("rhymes")),
		}
		d.byText[text] = w
		d.byID[w.ID] = w
		return true
	})
	if len(d.byText) == 0 {
		return fmt.Errorf("%s contains no words", path)
	}
	return nil
}

func (d *Dataset) loadPlates(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s is not valid JSON", path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return fmt.Errorf("%s: expected an array of plates", path)
	}
	root.ForEach(func(_, value gjson.Result) bool {
		letters := strings.ToLower(value.Get("letters").String())
		if len(letters) != 3 {
			return true
		}
		count := int(value.Get("solutions").Int())
		tier := model.TierForSolutionCount(count)
		if t := value.Get("tier"); t.Exists() {
			tier = model.TierFromKey(t.String())
		}
		d.Plates = append(d.Plates, model.Plate{
			Letters:       letters,
			SolutionCount: count,
			Tier:          tier,
		})
		return true
	})
	if len(d.Plates) == 0 {
		return fmt.Errorf("%s contains no plates", path)
	}
	return nil
}

func (d *Dataset) loadSolutions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s is not valid JSON", path)
	}
	root := gjson.ParseBytes(data)
	root.ForEach(func(plate, words gjson.Result) bool {
		letters := strings.ToLower(plate.String())
		byID := map[string]int{}
		words.ForEach(func(id, score gjson.Result) bool {
			byID[id.String()] = int(score.Int())
			return true
		})
		if len(byID) > 0 {
			d.solutions[letters] = byID
		}
		return true
	})
	return nil
}

// normalizeList flattens the dataset's loosest field shape: a missing value,
// a single string, or an array of strings all become a []string.
func normalizeList(res gjson.Result) []string {
	if !res.Exists() {
		return nil
	}
	if res.IsArray() {
		var out []string
		res.ForEach(func(_, item gjson.Result) bool {
			if s := item.String(); s != "" {
				out = append(out, s)
			}
			return true
		})
		return out
	}
	if s := res.String(); s != "" {
		return []string{s}
	}
	return nil
}
