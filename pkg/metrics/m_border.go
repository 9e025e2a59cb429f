package metrics

import (
	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// BorderRiskMetric weights BAI and GFI per state and applies a multiplier to
// states on an international border. The result value is the highest state score.
type BorderRiskMetric struct {
	BAIWeight  float64
	GFIWeight  float64
	Multiplier float64
	TopN       int
}

func (m *BorderRiskMetric) Key() string  { return "border_risk" }
func (m *BorderRiskMetric) Name() string { return "Border Security Risk" }

func (m *BorderRiskMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	src, err := requireTable(store, dataset.KindStateSummary)
	if err != nil {
		return nil, err
	}
	f := opts.Filter
	f.District = ""
	t := f.Apply(src)

	groups, err := aggregate.GroupSum(t, aggregate.ByState, withPresent(t, dataset.AllMeasures))
	if err != nil {
		return nil, err
	}

	var border int
	entries := make([]Entry, 0, len(groups))
	for _, s := range aggregate.SortedKeys(groups) {
		g := groups[s]
		bai, gfi := BAI(g.Measures), GFI(g.Measures)
		mult := 1.0
		e := Entry{Entity: s, Totals: g.Totals(), Scores: map[string]float64{"bai": bai, "gfi": gfi}}
		if dataset.IsBorderState(s) {
			mult = m.Multiplier
			border++
			e.Flags = []string{"border"}
		}
		e.Value = (bai*m.BAIWeight + gfi*m.GFIWeight) * mult
		e.Classification = BorderRiskScale.Classify(e.Value)
		entries = append(entries, e)
	}
	rank(entries)

	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Classification: BorderRiskScale.Floor,
		Totals: map[string]float64{
			"states":        float64(len(entries)),
			"border_states": float64(border),
		},
	}
	if len(entries) > 0 {
		res.Value = entries[0].Value
		res.Classification = entries[0].Classification
	}
	res.Breakdown = truncate(entries, topN(opts, m.TopN))
	res.Chart = barChart(res.Breakdown, 1)
	return res, nil
}
