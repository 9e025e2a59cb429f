package metrics

import (
	"fmt"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// CompositeMetric combines BAI, GFI, DPI and CCI per entity. Each input is
// min-max normalized across the batch and the normalized values are summed
// with the configured weights. The result value is the top-ranked entity's score.
type CompositeMetric struct {
	Weights             Weights
	MinDPIPeriods       int
	NeutralDPI          float64
	PincodesPerDistrict float64
	TopN                int
}

func (m *CompositeMetric) Key() string  { return "composite" }
func (m *CompositeMetric) Name() string { return "Composite Risk Score" }

func (m *CompositeMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	w := m.Weights
	if opts.Weights != nil {
		w = *opts.Weights
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	t, entity, err := entityTable(store, opts)
	if err != nil {
		return nil, err
	}
	groups, err := aggregate.GroupSum(t, entity, withPresent(t, dataset.AllMeasures))
	if err != nil {
		return nil, err
	}

	districtSrc, err := requireTable(store, dataset.KindDistrictSummary)
	if err != nil {
		return nil, err
	}
	districts := aggregate.Distinct(opts.Filter.Apply(districtSrc), entity, aggregate.ByDistrict)

	monthlySrc, err := requireTable(store, dataset.KindMonthlySummary)
	if err != nil {
		return nil, err
	}
	series, err := demoSeriesByEntity(opts.Filter.Apply(monthlySrc), entity, aggregate.ByMonth)
	if err != nil {
		return nil, err
	}

	keys := aggregate.SortedKeys(groups)
	raw := map[string][]float64{"bai": {}, "gfi": {}, "dpi": {}, "cci": {}}
	neutral := 0
	for _, k := range keys {
		g := groups[k]
		raw["bai"] = append(raw["bai"], BAI(g.Measures))
		raw["gfi"] = append(raw["gfi"], GFI(g.Measures))
		raw["cci"] = append(raw["cci"], CCI(g.Measures, float64(districts[k])*m.PincodesPerDistrict))

		dpi := m.NeutralDPI
		if pts := series[k]; len(pts) >= m.MinDPIPeriods {
			if v, _, _, err := DPI(values(pts)); err == nil {
				dpi = v
			}
		} else {
			neutral++
		}
		raw["dpi"] = append(raw["dpi"], dpi)
	}

	norm := map[string][]float64{}
	for dim, xs := range raw {
		norm[dim] = MinMax(xs)
	}

	entries := make([]Entry, 0, len(keys))
	bands := map[string]float64{}
	for i, k := range keys {
		score := w.BAI*norm["bai"][i] + w.GFI*norm["gfi"][i] + w.DPI*norm["dpi"][i] + w.CCI*norm["cci"][i]
		label := CompositeScale.Classify(score)
		bands[label]++
		entries = append(entries, Entry{
			Entity:         k,
			Value:          score,
			Classification: label,
			Totals:         groups[k].Totals(),
			Scores: map[string]float64{
				"bai": raw["bai"][i], "gfi": raw["gfi"][i], "dpi": raw["dpi"][i], "cci": raw["cci"][i],
				"bai_norm": norm["bai"][i], "gfi_norm": norm["gfi"][i], "dpi_norm": norm["dpi"][i], "cci_norm": norm["cci"][i],
			},
		})
	}
	rank(entries)

	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Classification: CompositeScale.Floor,
		Totals: map[string]float64{
			"entities":   float64(len(entries)),
			"weight_bai": w.BAI,
			"weight_gfi": w.GFI,
			"weight_dpi": w.DPI,
			"weight_cci": w.CCI,
		},
	}
	for _, label := range CompositeScale.Labels() {
		res.Totals["count_"+label] = bands[label]
	}
	if len(entries) > 0 {
		res.Value = entries[0].Value
		res.Classification = entries[0].Classification
	}
	if neutral > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf("%d entities have fewer than %d monthly periods; DPI set to %.1f", neutral, m.MinDPIPeriods, m.NeutralDPI))
	}
	res.Breakdown = truncate(entries, topN(opts, m.TopN))
	res.Chart = barChart(res.Breakdown, 1)
	return res, nil
}
