package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/mgorbunov/plately/internal/model"
)

// SourceWord is one scored dictionary entry handed to Build.
type SourceWord struct {
	Text      string
	Frequency float64
}

// BuildOptions tunes dataset generation.
type BuildOptions struct {
	// MinSolutions drops plates with fewer findable words. Zero means the
	// default of 3.
	MinSolutions int
	// EnsembleLimit is the largest solution count for which a plate gets an
	// enumerated solution map. Zero means the default of 25.
	EnsembleLimit int
}

// BuildResult summarizes a finished build.
type BuildResult struct {
	Words          int
	Plates         int
	EnsemblePlates int
	Dir            string
}

type wordRecord struct {
	Word        string  `json:"word"`
	Frequency   float64 `json:"frequency"`
	Vocabulary  int     `json:"vocabulary"`
	Orthography int     `json:"orthography"`
}

type plateRecord struct {
	Letters   string `json:"letters"`
	Solutions int    `json:"solutions"`
	Tier      string `json:"tier"`
}

// Build derives the game dataset from a scored word list and writes it under
// dir/<lang>/. Plates are every three-letter sequence that appears in order
// inside at least MinSolutions words; tiers follow the solution counts.
func Build(dir, lang string, words []SourceWord, opts BuildOptions) (BuildResult, error) {
	if lang == "" {
		return BuildResult{}, fmt.Errorf("language is required")
	}
	if len(words) == 0 {
		return BuildResult{}, fmt.Errorf("word list is empty")
	}
	if opts.MinSolutions <= 0 {
		opts.MinSolutions = 3
	}
	if opts.EnsembleLimit <= 0 {
		opts.EnsembleLimit = 25
	}

	wordsOut := make(map[string]wordRecord, len(words))
	ids := make(map[string]string, len(words))
	seen := make(map[string]struct{}, len(words))
	i := 0
	for _, src := range words {
		if len(src.Text) < 2 {
			continue
		}
		if _, dup := seen[src.Text]; dup {
			continue
		}
		seen[src.Text] = struct{}{}
		i++
		id := fmt.Sprintf("w%06d", i)
		ids[src.Text] = id
		wordsOut[id] = wordRecord{
			Word:        src.Text,
			Frequency:   src.Frequency,
			Vocabulary:  vocabularyScore(src.Frequency),
			Orthography: orthographyScore(src.Text),
		}
	}
	if len(wordsOut) == 0 {
		return BuildResult{}, fmt.Errorf("no usable words after filtering")
	}

	counts := make(map[string]int)
	// members keeps the per-plate word lists only while they stay small
	// enough for an ensemble map; nil marks an overflowed plate.
	members := make(map[string][]string)
	for text := range ids {
		for _, plate := range plateTriples(text) {
			counts[plate]++
			if counts[plate] > opts.EnsembleLimit {
				members[plate] = nil
				continue
			}
			members[plate] = append(members[plate], text)
		}
	}

	var plates []plateRecord
	for letters, count := range counts {
		if count < opts.MinSolutions {
			continue
		}
		plates = append(plates, plateRecord{
			Letters:   letters,
			Solutions: count,
			Tier:      model.TierForSolutionCount(count).Key(),
		})
	}
	if len(plates) == 0 {
		return BuildResult{}, fmt.Errorf("no plates with at least %d solutions", opts.MinSolutions)
	}
	sort.Slice(plates, func(i, j int) bool { return plates[i].Letters < plates[j].Letters })

	solutions := make(map[string]map[string]int)
	for _, plate := range plates {
		texts := members[plate.Letters]
		if len(texts) == 0 || plate.Solutions > opts.EnsembleLimit {
			continue
		}
		var total float64
		for _, text := range texts {
			total += attestedFrequency(wordsOut[ids[text]].Frequency)
		}
		byID := make(map[string]int, len(texts))
		for _, text := range texts {
			id := ids[text]
			byID[id] = informationScore(attestedFrequency(wordsOut[id].Frequency), total)
		}
		solutions[plate.Letters] = byID
	}

	base := filepath.Join(dir, lang)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return BuildResult{}, fmt.Errorf("failed to create dataset dir: %w", err)
	}
	if err := writeJSON(filepath.Join(base, wordsFile), wordsOut); err != nil {
		return BuildResult{}, err
	}
	if err := writeJSON(filepath.Join(base, platesFile), plates); err != nil {
		return BuildResult{}, err
	}
	if len(solutions) > 0 {
		if err := writeJSON(filepath.Join(base, solutionsFile), solutions); err != nil {
			return BuildResult{}, err
		}
	}

	return BuildResult{
		Words:          len(wordsOut),
		Plates:         len(plates),
		EnsemblePlates: len(solutions),
		Dir:            base,
	}, nil
}

// plateTriples returns the distinct three-letter sequences that occur in
// order inside the word.
func plateTriples(word string) []string {
	seen := make(map[string]struct{})
	n := len(word)
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				seen[string([]byte{word[i], word[j], word[k]})] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for plate := range seen {
		out = append(out, plate)
	}
	return out
}

// vocabularyScore maps corpus frequency to a 0-100 sophistication score.
// Everyday words (zipf around 6 and above) score near zero; unattested
// words score 100.
func vocabularyScore(frequency float64) int {
	if frequency <= 0 {
		return 100
	}
	zipf := math.Log10(frequency) + 9
	return clampScore(int(math.Round((7 - zipf) / 7 * 100)))
}

// orthographyScore rates spelling complexity from length and letter variety.
func orthographyScore(word string) int {
	distinct := make(map[byte]struct{}, len(word))
	for i := 0; i < len(word); i++ {
		distinct[word[i]] = struct{}{}
	}
	return clampScore((len(word)-2)*6 + len(distinct)*4)
}

// informationScore is the surprisal of drawing this word out of the plate's
// solution set, scaled so 20 bits saturate the scale.
func informationScore(frequency, total float64) int {
	if total <= 0 {
		return 0
	}
	p := frequency / total
	if p <= 0 || p >= 1 {
		return 0
	}
	return clampScore(int(math.Round(-math.Log2(p) * 5)))
}

func attestedFrequency(f float64) float64 {
	if f <= 0 {
		return 1e-9
	}
	return f
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
