package metrics

import (
	"fmt"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// CCIMetric is update operations per pincode. The caller must say how
// pincodes are counted: distinct pincodes from pincode-level data, or a fixed
// multiple of districts when only summaries are loaded.
type CCIMetric struct {
	PincodesPerDistrict float64
	TopN                int
}

func (m *CCIMetric) Key() string  { return "cci" }
func (m *CCIMetric) Name() string { return "Center Congestion Index" }

func (m *CCIMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	var (
		src      *dataset.Table
		attr     aggregate.KeyFunc
		perUnit  float64
		unitName string
		err      error
	)
	switch opts.PincodeMode {
	case "":
		return nil, ErrPincodeModeRequired
	case PincodeDistinct:
		src, err = requireTable(store, dataset.KindActivity)
		attr, perUnit, unitName = aggregate.ByPincode, 1, "pincodes"
	case PincodeDistrictProxy:
		src, err = requireTable(store, dataset.KindDistrictSummary)
		attr, perUnit, unitName = aggregate.ByDistrict, m.PincodesPerDistrict, "districts"
	default:
		return nil, fmt.Errorf("%w: pincode mode %q", ErrInvalidOption, opts.PincodeMode)
	}
	if err != nil {
		return nil, err
	}
	t := opts.Filter.Apply(src)

	entity := aggregate.ByState
	if opts.level() == LevelDistrict {
		entity = aggregate.ByDistrict
	}
	fields := withPresent(t, dataset.OpsFields)
	total, err := aggregate.Total(t, fields)
	if err != nil {
		return nil, err
	}
	groups, err := aggregate.GroupSum(t, entity, fields)
	if err != nil {
		return nil, err
	}
	units := aggregate.Distinct(t, entity, attr)
	allUnits := aggregate.Distinct(t, aggregate.All, attr)["all"]

	value := CCI(total.Measures, float64(allUnits)*perUnit)
	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Value:          value,
		Classification: CCIScale.Classify(value),
		Totals: mergeTotals(total.Totals(), map[string]float64{
			unitName:  float64(allUnits),
			"centers": float64(allUnits) * perUnit,
		}),
		Notes: []string{fmt.Sprintf("pincode mode: %s", opts.PincodeMode)},
	}

	entries := make([]Entry, 0, len(groups))
	for _, k := range aggregate.SortedKeys(groups) {
		g := groups[k]
		v := CCI(g.Measures, float64(units[k])*perUnit)
		entries = append(entries, Entry{
			Entity:         k,
			Value:          v,
			Classification: CCIScale.Classify(v),
			Totals:         mergeTotals(g.Totals(), map[string]float64{unitName: float64(units[k])}),
		})
	}
	rank(entries)
	res.Breakdown = truncate(entries, topN(opts, m.TopN))
	res.Chart = barChart(res.Breakdown, 1)
	return res, nil
}

// CCI computes total_ops per center, or 0 when there are no centers.
func CCI(ms dataset.Measures, centers float64) float64 {
	return safeDiv(float64(ms.TotalOps()), centers)
}
