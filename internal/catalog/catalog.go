// Package catalog selects plates under a difficulty distribution.
package catalog

import (
	"math/rand"
	"time"

	"github.com/mgorbunov/plately/internal/model"
)

// tierWeights is the fixed draw distribution over difficulty tiers.
// Weights sum to 1.0.
var tierWeights = map[model.Tier]float64{
	model.TierVeryEasy:   0.15,
	model.TierEasy:       0.25,
	model.TierMedium:     0.35,
	model.TierHard:       0.15,
	model.TierVeryHard:   0.08,
	model.TierImpossible: 0.02,
}

// TierStats reports per-tier plate counts for diagnostics.
type TierStats struct {
	Tier      model.Tier
	Total     int
	Used      int
	Remaining int
}

// Catalog holds every known plate grouped by tier and tracks per-session
// usage. Not safe for concurrent use; the game is single-threaded.
type Catalog struct {
	rnd   *rand.Rand
	tiers map[model.Tier][]*model.Plate
	total int
}

// New builds a catalog from the loaded plates, seeded with the current time.
func New(plates []model.Plate) *Catalog {
	return NewWithRand(plates, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand builds a catalog with an injected random source so tests can
// drive deterministic draws.
func NewWithRand(plates []model.Plate, rnd *rand.Rand) *Catalog {
	c := &Catalog{rnd: rnd, tiers: map[model.Tier][]*model.Plate{}}
	for i := range plates {
		p := plates[i]
		c.tiers[p.Tier] = append(c.tiers[p.Tier], &p)
		c.total++
	}
	return c
}

// Draw picks a tier by weighted roulette, then a plate uniformly from that
// tier's unused pool. An exhausted tier is reset (tier-local) and retried
// once, so a draw never dead-ends; a tier with no plates at all falls
// through to the next non-empty tier. An empty or nil catalog fails closed
// and returns the placeholder plate.
func (c *Catalog) Draw() model.Plate {
	if c == nil || c.total == 0 {
		return model.PlaceholderPlate
	}
	tier := c.pickTier()
	pool := c.tiers[tier]
	if len(pool) == 0 {
		pool = c.fallbackPool(tier)
		if len(pool) == 0 {
			return model.PlaceholderPlate
		}
	}
	plate := pickUnused(c.rnd, pool)
	if plate == nil {
		resetTier(pool)
		plate = pickUnused(c.rnd, pool)
	}
	if plate == nil {
		return model.PlaceholderPlate
	}
	plate.Used = true
	return *plate
}

// Stats returns per-tier usage counts in ascending difficulty order.
func (c *Catalog) Stats() []TierStats {
	if c == nil {
		return nil
	}
	out := make([]TierStats, 0, len(c.tiers))
	for _, tier := range model.AllTiers() {
		pool := c.tiers[tier]
		if len(pool) == 0 {
			continue
		}
		used := 0
		for _, p := range pool {
			if p.Used {
				used++
			}
		}
		out = append(out, TierStats{
			Tier:      tier,
			Total:     len(pool),
			Used:      used,
			Remaining: len(pool) - used,
		})
	}
	return out
}

// pickTier runs cumulative-weight roulette selection over a uniform draw.
func (c *Catalog) pickTier() model.Tier {
	r := c.rnd.Float64()
	acc := 0.0
	tiers := model.AllTiers()
	for _, tier := range tiers {
		acc += tierWeights[tier]
		if r <= acc {
			return tier
		}
	}
	return tiers[len(tiers)-1]
}

// fallbackPool finds the nearest tier with plates when the chosen tier has
// none in the dataset, preferring easier tiers first.
func (c *Catalog) fallbackPool(tier model.Tier) []*model.Plate {
	tiers := model.AllTiers()
	for offset := 1; offset < len(tiers); offset++ {
		if idx := int(tier) - offset; idx >= 0 {
			if pool := c.tiers[tiers[idx]]; len(pool) > 0 {
				return pool
			}
		}
		if idx := int(tier) + offset; idx < len(tiers) {
			if pool := c.tiers[tiers[idx]]; len(pool) > 0 {
				return pool
			}
		}
	}
	return nil
}

func pickUnused(rnd *rand.Rand, pool []*model.Plate) *model.Plate {
	unused := make([]*model.Plate, 0, len(pool))
	for _, p := range pool {
		if !p.Used {
			unused = append(unused, p)
		}
	}
	if len(unused) == 0 {
		return nil
	}
	return unused[rnd.Intn(len(unused))]
}

func resetTier(pool []*model.Plate) {
	for _, p := range pool {
		p.Used = false
	}
}
