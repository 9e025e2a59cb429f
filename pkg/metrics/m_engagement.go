package metrics

import (
	"math"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// EngagementMetric is the per-capita update rate used for economic
// segmentation: total updates divided by resident population. It also reports
// the working-age update density and the exclusion estimate per state.
type EngagementMetric struct {
	TopN int
}

func (m *EngagementMetric) Key() string  { return "engagement" }
func (m *EngagementMetric) Name() string { return "Per-Capita Engagement" }

func (m *EngagementMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	src, err := requireTable(store, dataset.KindStateSummary)
	if err != nil {
		return nil, err
	}
	f := opts.Filter.Normalize()
	f.District = ""
	tbl := f.Apply(src)

	groups, err := aggregate.GroupSum(tbl, aggregate.ByState, withPresent(tbl, dataset.OpsFields))
	if err != nil {
		return nil, err
	}

	var updates, population float64
	entries := make([]Entry, 0, len(groups))
	for _, s := range aggregate.SortedKeys(groups) {
		g := groups[s]
		pop := dataset.Population(s)
		ops := float64(g.TotalOps())
		updates += ops
		population += pop

		rate := ops / pop
		twd := float64(g.DemoAdult+g.BioAdult) / pop
		entries = append(entries, Entry{
			Entity:         s,
			Value:          rate,
			Classification: EngagementScale.Classify(rate),
			Totals:         mergeTotals(g.Totals(), map[string]float64{"population": pop}),
			Scores: map[string]float64{
				"sur":       rate,
				"twd":       twd,
				"exclusion": 1 - math.Min(rate, 1),
			},
		})
	}

	value := safeDiv(updates, population)
	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Value:          value,
		Classification: EngagementScale.Classify(value),
		Totals: map[string]float64{
			"total_updates": updates,
			"population":    population,
			"states":        float64(len(groups)),
		},
	}
	rank(entries)
	res.Breakdown = truncate(entries, topN(opts, m.TopN))
	res.Chart = barChart(res.Breakdown, 1)
	return res, nil
}
