package metrics

import (
	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// MaturityMetric estimates how built-out the enrolment network is: update
// operations per district, scaled by OpsPerDistrict. Each entry also carries
// the district-proxy concentration index.
type MaturityMetric struct {
	OpsPerDistrict      float64
	PincodesPerDistrict float64
	TopN                int
}

func (m *MaturityMetric) Key() string  { return "maturity" }
func (m *MaturityMetric) Name() string { return "Infrastructure Maturity" }

func (m *MaturityMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	src, err := requireTable(store, dataset.KindDistrictSummary)
	if err != nil {
		return nil, err
	}
	t := opts.Filter.Apply(src)

	fields := withPresent(t, dataset.OpsFields)
	total, err := aggregate.Total(t, fields)
	if err != nil {
		return nil, err
	}
	groups, err := aggregate.GroupSum(t, aggregate.ByState, fields)
	if err != nil {
		return nil, err
	}
	districts := aggregate.Distinct(t, aggregate.ByState, aggregate.ByDistrict)
	allDistricts := aggregate.Distinct(t, aggregate.All, aggregate.ByDistrict)["all"]

	value := m.maturity(total.Measures, allDistricts)
	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Value:          value,
		Classification: MaturityScale.Classify(value),
		Totals:         mergeTotals(total.Totals(), map[string]float64{"districts": float64(allDistricts)}),
	}

	entries := make([]Entry, 0, len(groups))
	for _, s := range aggregate.SortedKeys(groups) {
		g := groups[s]
		v := m.maturity(g.Measures, districts[s])
		entries = append(entries, Entry{
			Entity:         s,
			Value:          v,
			Classification: MaturityScale.Classify(v),
			Totals:         mergeTotals(g.Totals(), map[string]float64{"districts": float64(districts[s])}),
			Scores:         map[string]float64{"cci": CCI(g.Measures, float64(districts[s])*m.PincodesPerDistrict)},
		})
	}
	rank(entries)
	res.Breakdown = truncate(entries, topN(opts, m.TopN))
	res.Chart = barChart(res.Breakdown, 1)
	return res, nil
}

func (m *MaturityMetric) maturity(ms dataset.Measures, districts int) float64 {
	return safeDiv(float64(ms.TotalOps()), float64(districts)*m.OpsPerDistrict)
}
