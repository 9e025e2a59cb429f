package metrics

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// requireTable returns the table of the given kind or ErrTableUnavailable.
func requireTable(store *dataset.Store, kind dataset.Kind) (*dataset.Table, error) {
	t := store.Table(kind)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTableUnavailable, kind)
	}
	return t, nil
}

// entityTable picks the summary table and grouping key for the breakdown
// level. A district filter always selects the district table.
func entityTable(store *dataset.Store, opts Options) (*dataset.Table, aggregate.KeyFunc, error) {
	if opts.level() == LevelDistrict || opts.Filter.District != "" {
		t, err := requireTable(store, dataset.KindDistrictSummary)
		if err != nil {
			return nil, nil, err
		}
		key := aggregate.ByState
		if opts.level() == LevelDistrict {
			key = aggregate.ByDistrict
		}
		return opts.Filter.Apply(t), key, nil
	}
	t, err := requireTable(store, dataset.KindStateSummary)
	if err != nil {
		return nil, nil, err
	}
	return opts.Filter.Apply(t), aggregate.ByState, nil
}

// rank sorts entries by value descending, breaking ties by entity name.
func rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Entity < entries[j].Entity
	})
}

// truncate keeps the first n entries when n > 0.
func truncate(entries []Entry, n int) []Entry {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}

func topN(opts Options, def int) int {
	if opts.TopN > 0 {
		return opts.TopN
	}
	return def
}

// barChart plots entries in rank order.
func barChart(entries []Entry, scale float64) *ChartSeries {
	c := &ChartSeries{Kind: "bar", Labels: []string{}, Values: []float64{}}
	for _, e := range entries {
		c.Labels = append(c.Labels, e.Entity)
		c.Values = append(c.Values, e.Value*scale)
	}
	return c
}

// safeDiv returns num/den, or 0 when den is zero.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// mean is stats.Mean with an empty input mapped to zero.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}

// mergeTotals copies extra into a fresh map seeded with base.
func mergeTotals(base map[string]float64, extra map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// withPresent widens a required field set to every column the table carries,
// so result totals are complete while missing required columns still fail.
func withPresent(t *dataset.Table, required dataset.FieldSet) dataset.FieldSet {
	if t == nil {
		return required
	}
	return required | t.Fields
}

// ratioDef describes a metric that is a single ratio of summed measures.
type ratioDef struct {
	key, name string
	fields    dataset.FieldSet
	scale     Scale
	fn        func(m dataset.Measures) float64
	chartMul  float64
	topN      int
}

// evaluateRatio computes a ratio metric for the filtered batch and for each
// entity at the requested level.
func evaluateRatio(store *dataset.Store, opts Options, def ratioDef) (*Result, error) {
	t, key, err := entityTable(store, opts)
	if err != nil {
		return nil, err
	}
	fields := withPresent(t, def.fields)
	total, err := aggregate.Total(t, fields)
	if err != nil {
		return nil, err
	}
	groups, err := aggregate.GroupSum(t, key, fields)
	if err != nil {
		return nil, err
	}

	value := def.fn(total.Measures)
	res := &Result{
		Key:            def.key,
		Name:           def.name,
		Value:          value,
		Classification: def.scale.Classify(value),
		Totals:         mergeTotals(total.Totals(), map[string]float64{"entities": float64(len(groups))}),
	}

	entries := make([]Entry, 0, len(groups))
	for _, k := range aggregate.SortedKeys(groups) {
		g := groups[k]
		v := def.fn(g.Measures)
		entries = append(entries, Entry{
			Entity:         k,
			Value:          v,
			Classification: def.scale.Classify(v),
			Totals:         g.Totals(),
		})
	}
	rank(entries)
	res.Breakdown = truncate(entries, topN(opts, def.topN))

	mul := def.chartMul
	if mul == 0 {
		mul = 1
	}
	res.Chart = barChart(res.Breakdown, mul)
	return res, nil
}
