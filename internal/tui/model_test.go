package tui

import (
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgorbunov/plately/internal/dataset"
	"github.com/mgorbunov/plately/internal/game"
	"github.com/mgorbunov/plately/internal/model"
)

func testConfig() model.Config {
	return model.Config{
		Lang:         "en",
		Mode:         model.ModeLive,
		RoundSeconds: 90,
		MinWordLen:   4,
		HintDelaySec: 15,
		HintEverySec: 20,
	}
}

// testEngine builds a one-plate dataset ("ate" is the only three-letter
// sequence shared by at least three words) so draws are deterministic.
func testEngine(t *testing.T) *game.Engine {
	t.Helper()
	dir := t.TempDir()
	words := []dataset.SourceWord{
		{Text: "plate", Frequency: 1e-5},
		{Text: "slate", Frequency: 2e-6},
		{Text: "grate", Frequency: 8e-7},
		{Text: "crate", Frequency: 5e-7},
	}
	if _, err := dataset.Build(dir, "en", words, dataset.BuildOptions{}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ds, err := dataset.Load(dir, "en")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return game.New(testConfig(), dataset.Resolved(ds), nil, nil, rand.New(rand.NewSource(1)))
}

func TestStaleTickIgnored(t *testing.T) {
	m := NewModel(testConfig(), testEngine(t))
	before := m.remaining

	updated, _ := m.Update(tickMsg{round: m.round - 1})
	m = updated.(*Model)
	if m.remaining != before {
		t.Fatalf("stale tick changed the timer: %d -> %d", before, m.remaining)
	}
}

func TestTickCountsDown(t *testing.T) {
	m := NewModel(testConfig(), testEngine(t))
	before := m.remaining

	updated, cmd := m.Update(tickMsg{round: m.round})
	m = updated.(*Model)
	if m.remaining != before-1 {
		t.Fatalf("expected remaining %d, got %d", before-1, m.remaining)
	}
	if cmd == nil {
		t.Fatalf("expected a rescheduled tick")
	}
}

func TestTimerExpiryEndsRound(t *testing.T) {
	m := NewModel(testConfig(), testEngine(t))
	m.remaining = 1

	updated, _ := m.Update(tickMsg{round: m.round})
	m = updated.(*Model)
	if !m.ended {
		t.Fatalf("expected round to end at zero")
	}
	if !strings.Contains(m.message, "time!") {
		t.Fatalf("expected expiry message, got %q", m.message)
	}
}

func TestCtrlNStartsNewRound(t *testing.T) {
	m := NewModel(testConfig(), testEngine(t))
	first := m.round

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(*Model)
	if m.round != first+1 {
		t.Fatalf("expected round %d, got %d", first+1, m.round)
	}
	if m.ended {
		t.Fatalf("new round must be active")
	}
}

func TestSubmitValidWord(t *testing.T) {
	m := NewModel(testConfig(), testEngine(t))
	if m.snap.Plate.Letters != "ate" {
		t.Fatalf("expected plate %q, got %q", "ate", m.snap.Plate.Letters)
	}

	m.input.SetValue("plate")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	if !strings.HasPrefix(m.message, "+") {
		t.Fatalf("expected points message, got %q", m.message)
	}
	if len(m.snap.Found) != 1 || m.snap.Found[0] != "plate" {
		t.Fatalf("expected found list [plate], got %v", m.snap.Found)
	}
	if m.input.Value() != "" {
		t.Fatalf("input not cleared after submit")
	}
}

func TestSubmitRejectedWord(t *testing.T) {
	m := NewModel(testConfig(), testEngine(t))

	m.input.SetValue("zzz")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	if strings.HasPrefix(m.message, "+") {
		t.Fatalf("rejected word produced points: %q", m.message)
	}
	if len(m.snap.Found) != 0 {
		t.Fatalf("rejected word recorded as found: %v", m.snap.Found)
	}
}

func TestHintTick(t *testing.T) {
	m := NewModel(testConfig(), testEngine(t))

	updated, cmd := m.Update(hintMsg{round: m.round})
	m = updated.(*Model)
	if m.hint == "" {
		t.Fatalf("expected a hint")
	}
	if cmd == nil {
		t.Fatalf("expected the next hint to be scheduled")
	}

	before := m.hint
	updated, _ = m.Update(hintMsg{round: m.round - 1})
	m = updated.(*Model)
	if m.hint != before {
		t.Fatalf("stale hint tick changed the hint")
	}
}

func TestViewBeforeDatasetResolves(t *testing.T) {
	engine := game.New(testConfig(), dataset.Pending(), nil, nil, rand.New(rand.NewSource(1)))
	m := NewModel(testConfig(), engine)

	if m.snap.Plate.Letters != model.PlaceholderPlate.Letters {
		t.Fatalf("expected placeholder plate, got %q", m.snap.Plate.Letters)
	}
	if !strings.Contains(m.View(), "loading dataset") {
		t.Fatalf("expected loading notice in view")
	}
}
