package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// anomalyDims are the dimensions standardized by the anomaly detector.
var anomalyDims = []string{"total_demo", "total_bio", "total_enrol", "bai"}

// AnomalyMetric flags entities whose demographic, biometric or enrolment
// volume, or whose BAI, lies more than Sigma population standard deviations
// from the batch mean. Only flagged entities appear in the breakdown, ordered
// by how many dimensions they exceed.
type AnomalyMetric struct {
	DefaultSigma float64
}

func (m *AnomalyMetric) Key() string  { return "anomaly" }
func (m *AnomalyMetric) Name() string { return "Statistical Anomaly Detection" }

func (m *AnomalyMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	sigma := opts.Sigma
	if sigma == 0 {
		sigma = m.DefaultSigma
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: sigma %v", ErrInvalidOption, sigma)
	}

	t, entity, err := entityTable(store, opts)
	if err != nil {
		return nil, err
	}
	groups, err := aggregate.GroupSum(t, entity, withPresent(t, dataset.AllMeasures))
	if err != nil {
		return nil, err
	}
	keys := aggregate.SortedKeys(groups)

	raw := make(map[string][]float64, len(anomalyDims))
	for _, k := range keys {
		g := groups[k]
		raw["total_demo"] = append(raw["total_demo"], float64(g.TotalDemo()))
		raw["total_bio"] = append(raw["total_bio"], float64(g.TotalBio()))
		raw["total_enrol"] = append(raw["total_enrol"], float64(g.TotalEnrol()))
		raw["bai"] = append(raw["bai"], BAI(g.Measures))
	}

	res := &Result{
		Key:  m.Key(),
		Name: m.Name(),
		Totals: map[string]float64{
			"entities": float64(len(keys)),
			"sigma":    sigma,
		},
	}

	z := make(map[string][]float64, len(anomalyDims))
	for _, dim := range anomalyDims {
		var mu, sd float64
		z[dim], mu, sd = ZScores(raw[dim])
		res.Totals[dim+"_mean"] = mu
		res.Totals[dim+"_std"] = sd
	}

	var entries []Entry
	for i, k := range keys {
		e := Entry{
			Entity: k,
			Totals: groups[k].Totals(),
			Scores: make(map[string]float64, len(anomalyDims)),
		}
		e.Totals["bai"] = raw["bai"][i]
		var maxZ float64
		for _, dim := range anomalyDims {
			zi := z[dim][i]
			e.Scores[dim] = zi
			if math.Abs(zi) > maxZ {
				maxZ = math.Abs(zi)
			}
			if math.Abs(zi) > sigma {
				e.Flags = append(e.Flags, dim)
			}
		}
		if len(e.Flags) == 0 {
			continue
		}
		e.Value = maxZ
		e.Classification = "Anomalous"
		e.Totals["exceeded"] = float64(len(e.Flags))
		e.Totals["max_z"] = maxZ
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if len(entries[i].Flags) != len(entries[j].Flags) {
			return len(entries[i].Flags) > len(entries[j].Flags)
		}
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Entity < entries[j].Entity
	})

	res.Value = float64(len(entries))
	res.Classification = "Normal"
	if len(entries) > 0 {
		res.Classification = "Anomalies Detected"
	}
	res.Totals["anomalous"] = res.Value
	res.Breakdown = entries

	chart := &ChartSeries{Kind: "bar", Labels: []string{}, Values: []float64{}}
	for _, e := range entries {
		chart.Labels = append(chart.Labels, e.Entity)
		chart.Values = append(chart.Values, float64(len(e.Flags)))
	}
	res.Chart = chart
	return res, nil
}
