package stats

import (
	"context"

	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Stats      *model.LifetimeStats
	Summary    Summary
	TopPlates  []PlateBestRow
	ScoreCurve []float64
}

// BuildReport loads and prepares lifetime data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	stats, err := st.LoadLifetimeStats(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Stats:      stats,
		Summary:    Summarize(stats),
		TopPlates:  TopPlates(stats, cfg.Last),
		ScoreCurve: ScoreSeries(stats, cfg.Last),
	}, nil
}
