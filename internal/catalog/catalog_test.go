package catalog

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/mgorbunov/plately/internal/model"
)

func fullCatalogPlates(perTier int) []model.Plate {
	var plates []model.Plate
	for _, tier := range model.AllTiers() {
		for i := 0; i < perTier; i++ {
			plates = append(plates, model.Plate{
				Letters: fmt.Sprintf("%s%02d", tier.Key()[:1], i),
				Tier:    tier,
			})
		}
	}
	return plates
}

func TestDrawConvergesToTierWeights(t *testing.T) {
	c := NewWithRand(fullCatalogPlates(20), rand.New(rand.NewSource(1)))
	const draws = 100000
	counts := map[model.Tier]int{}
	for i := 0; i < draws; i++ {
		p := c.Draw()
		counts[p.Tier]++
	}
	for tier, weight := range tierWeights {
		got := float64(counts[tier]) / draws
		if math.Abs(got-weight) > 0.01 {
			t.Errorf("tier %s: empirical frequency %.4f, want %.4f ± 0.01", tier.Label(), got, weight)
		}
	}
}

func TestDrawExhaustionResetsTier(t *testing.T) {
	plates := []model.Plate{
		{Letters: "abc", Tier: model.TierMedium},
		{Letters: "xyz", Tier: model.TierMedium},
	}
	c := NewWithRand(plates, rand.New(rand.NewSource(2)))
	seen := map[string]int{}
	for i := 0; i < 10; i++ {
		p := c.Draw()
		if p.Letters == model.PlaceholderPlate.Letters {
			t.Fatalf("draw %d returned placeholder from a non-empty catalog", i)
		}
		seen[p.Letters]++
	}
	if len(seen) != 2 {
		t.Fatalf("expected both plates across wrapped draws, got %v", seen)
	}
	stats := c.Stats()
	if len(stats) != 1 {
		t.Fatalf("expected one tier in stats, got %d", len(stats))
	}
	if stats[0].Used == 0 {
		t.Fatalf("expected used flags after draws, got %+v", stats[0])
	}
}

func TestDrawEmptyCatalogFailsClosed(t *testing.T) {
	var nilCatalog *Catalog
	if p := nilCatalog.Draw(); p.Letters != model.PlaceholderPlate.Letters {
		t.Fatalf("nil catalog should return the placeholder, got %+v", p)
	}
	empty := NewWithRand(nil, rand.New(rand.NewSource(3)))
	if p := empty.Draw(); p.Letters != model.PlaceholderPlate.Letters {
		t.Fatalf("empty catalog should return the placeholder, got %+v", p)
	}
}

func TestDrawFallsThroughEmptyTier(t *testing.T) {
	// Only a single hard plate exists; every tier pick must land on it.
	plates := []model.Plate{{Letters: "zqj", Tier: model.TierImpossible}}
	c := NewWithRand(plates, rand.New(rand.NewSource(4)))
	for i := 0; i < 50; i++ {
		if p := c.Draw(); p.Letters != "zqj" {
			t.Fatalf("draw %d: expected zqj, got %+v", i, p)
		}
	}
}

func TestStatsCountsRemaining(t *testing.T) {
	plates := fullCatalogPlates(3)
	c := NewWithRand(plates, rand.New(rand.NewSource(5)))
	_ = c.Draw()
	total := 0
	remaining := 0
	for _, s := range c.Stats() {
		total += s.Total
		remaining += s.Remaining
	}
	if total != len(plates) {
		t.Fatalf("expected %d total plates, got %d", len(plates), total)
	}
	if remaining != total-1 {
		t.Fatalf("expected %d remaining after one draw, got %d", total-1, remaining)
	}
}
