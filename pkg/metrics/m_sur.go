package metrics

import (
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// SURMetric is the share of demographic updates coming from rural districts.
// A district is rural when it has fewer distinct pincodes than the threshold,
// which defaults to the median pincode count across districts in the batch.
type SURMetric struct {
	TopN int
}

func (m *SURMetric) Key() string  { return "sur" }
func (m *SURMetric) Name() string { return "Service Utilization Rate" }

func (m *SURMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	src, err := requireTable(store, dataset.KindActivity)
	if err != nil {
		return nil, err
	}
	t := opts.Filter.Apply(src)

	pincodes := aggregate.Distinct(t, aggregate.ByDistrict, aggregate.ByPincode)
	demo, err := aggregate.GroupSum(t, aggregate.ByDistrict, dataset.DemoFields)
	if err != nil {
		return nil, err
	}

	threshold := opts.PincodeThreshold
	if threshold <= 0 && len(pincodes) > 0 {
		counts := make([]float64, 0, len(pincodes))
		for _, c := range pincodes {
			counts = append(counts, float64(c))
		}
		threshold, err = stats.Median(counts)
		if err != nil {
			return nil, err
		}
	}

	type acc struct{ rural, total float64 }
	byState := make(map[string]*acc)
	var all acc
	var ruralDistricts int
	var districtEntries []Entry
	for _, d := range aggregate.SortedKeys(demo) {
		v := float64(demo[d].TotalDemo())
		rural := float64(pincodes[d]) < threshold
		state, _, _ := strings.Cut(d, aggregate.DistrictSep)
		if byState[state] == nil {
			byState[state] = &acc{}
		}
		byState[state].total += v
		all.total += v
		label := "Urban"
		if rural {
			byState[state].rural += v
			all.rural += v
			ruralDistricts++
			label = "Rural"
		}
		districtEntries = append(districtEntries, Entry{
			Entity:         d,
			Value:          float64(pincodes[d]),
			Classification: label,
			Totals:         map[string]float64{"total_demo": v, "pincodes": float64(pincodes[d])},
		})
	}

	value := safeDiv(all.rural, all.total)
	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Value:          value,
		Classification: SURScale.Classify(value),
		Totals: map[string]float64{
			"pincode_threshold": threshold,
			"districts":         float64(len(demo)),
			"rural_districts":   float64(ruralDistricts),
			"rural_demo":        all.rural,
			"total_demo":        all.total,
		},
		Chart: &ChartSeries{
			Kind:   "bar",
			Labels: []string{"Rural", "Urban"},
			Values: []float64{all.rural, all.total - all.rural},
		},
	}

	var entries []Entry
	if opts.level() == LevelDistrict {
		entries = districtEntries
	} else {
		for _, s := range aggregate.SortedKeys(byState) {
			a := byState[s]
			v := safeDiv(a.rural, a.total)
			entries = append(entries, Entry{
				Entity:         s,
				Value:          v,
				Classification: SURScale.Classify(v),
				Totals:         map[string]float64{"rural_demo": a.rural, "total_demo": a.total},
			})
		}
	}
	rank(entries)
	res.Breakdown = truncate(entries, topN(opts, m.TopN))
	return res, nil
}
