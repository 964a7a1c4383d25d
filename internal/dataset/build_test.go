package dataset

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/mgorbunov/plately/internal/model"
)

func TestBuildRoundTrip(t *testing.T) {
	dir := t.TempDir()
	words := []SourceWord{
		{Text: "plate", Frequency: 1e-5},
		{Text: "slate", Frequency: 2e-6},
		{Text: "grate", Frequency: 8e-7},
		{Text: "crate", Frequency: 5e-7},
	}

	res, err := Build(dir, "en", words, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Words != 4 {
		t.Fatalf("expected 4 words, got %d", res.Words)
	}
	if res.Plates == 0 {
		t.Fatalf("expected plates in build result")
	}
	if res.Dir != filepath.Join(dir, "en") {
		t.Fatalf("unexpected build dir %q", res.Dir)
	}

	ds, err := Load(dir, "en")
	if err != nil {
		t.Fatalf("Load failed on built dataset: %v", err)
	}
	if _, ok := ds.Lookup("plate"); !ok {
		t.Fatalf("expected built dataset to contain %q", "plate")
	}

	var ate *model.Plate
	for i := range ds.Plates {
		if ds.Plates[i].Letters == "ate" {
			ate = &ds.Plates[i]
			break
		}
	}
	if ate == nil {
		t.Fatalf("expected plate %q in built dataset", "ate")
	}
	if ate.SolutionCount != 4 {
		t.Fatalf("expected 4 solutions for %q, got %d", "ate", ate.SolutionCount)
	}
	if ate.Tier != model.TierImpossible {
		t.Fatalf("expected tier %s for %q, got %s", model.TierImpossible.Label(), "ate", ate.Tier.Label())
	}

	sols := ds.Solutions("ate")
	if len(sols) != 4 {
		t.Fatalf("expected 4 enumerated solutions for %q, got %d", "ate", len(sols))
	}
	for text, sol := range sols {
		if sol.Information < 0 || sol.Information > 100 {
			t.Fatalf("information score for %q out of range: %d", text, sol.Information)
		}
	}
}

func TestBuildMinSolutions(t *testing.T) {
	dir := t.TempDir()
	words := []SourceWord{
		{Text: "plate", Frequency: 1e-5},
		{Text: "slate", Frequency: 2e-6},
		{Text: "grate", Frequency: 8e-7},
	}

	res, err := Build(dir, "en", words, BuildOptions{MinSolutions: 3})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ds, err := Load(dir, "en")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, p := range ds.Plates {
		if p.SolutionCount < 3 {
			t.Fatalf("plate %q kept with %d solutions", p.Letters, p.SolutionCount)
		}
	}
	if res.Plates != len(ds.Plates) {
		t.Fatalf("result reports %d plates, dataset has %d", res.Plates, len(ds.Plates))
	}
}

func TestPlateTriples(t *testing.T) {
	got := plateTriples("abc")
	if len(got) != 1 || got[0] != "abc" {
		t.Fatalf("expected [abc], got %v", got)
	}

	got = plateTriples("abca")
	sort.Strings(got)
	want := []string{"aba", "abc", "aca", "bca"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if got := plateTriples("ab"); len(got) != 0 {
		t.Fatalf("expected no triples for short word, got %v", got)
	}
}

func TestScoreHeuristics(t *testing.T) {
	if vocabularyScore(1e-2) >= vocabularyScore(1e-7) {
		t.Fatalf("rarer words must score higher vocabulary")
	}
	if got := vocabularyScore(0); got != 100 {
		t.Fatalf("unattested word: expected 100, got %d", got)
	}
	if orthographyScore("at") >= orthographyScore("juxtaposition") {
		t.Fatalf("longer varied words must score higher orthography")
	}
	for _, f := range []float64{0, 1e-9, 1e-4, 1} {
		if got := vocabularyScore(f); got < 0 || got > 100 {
			t.Fatalf("vocabulary score out of range for %g: %d", f, got)
		}
	}
}
