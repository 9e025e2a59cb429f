package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/updatelens/updatelens/pkg/dataset"
)

// SeasonPresets are named calendar-month sets used by seasonal analysis.
var SeasonPresets = map[string][]int{
	"diwali":  {10, 11},
	"school":  {6, 7},
	"harvest": {3, 4, 9, 10},
}

// SeasonalMetric compares mean per-row mobility in the target calendar months
// against the remaining months. The value is the spike factor.
type SeasonalMetric struct {
	SpikeThreshold float64
}

func (m *SeasonalMetric) Key() string  { return "seasonal" }
func (m *SeasonalMetric) Name() string { return "Seasonal Migration Pattern" }

func (m *SeasonalMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	if len(opts.TargetMonths) == 0 {
		return nil, fmt.Errorf("%w: target months required", ErrInvalidOption)
	}
	for _, mo := range opts.TargetMonths {
		if mo < 1 || mo > 12 {
			return nil, fmt.Errorf("%w: month %d", ErrInvalidOption, mo)
		}
	}

	src := store.Table(dataset.KindDistrictDaily)
	if src.Len() == 0 {
		var err error
		if src, err = requireTable(store, dataset.KindMonthlySummary); err != nil {
			return nil, err
		}
	}
	t := opts.Filter.Apply(src)

	target := lo.SliceToMap(opts.TargetMonths, func(mo int) (int, struct{}) { return mo, struct{}{} })

	var inTarget, outside []float64
	perMonth := make(map[int][]float64)
	volume := make(map[int]float64)
	for _, r := range t.Records {
		mo := calendarMonth(r)
		if mo == 0 {
			continue
		}
		mob := RowMobility(r.Measures)
		perMonth[mo] = append(perMonth[mo], mob)
		volume[mo] += float64(r.TotalDemo())
		if _, ok := target[mo]; ok {
			inTarget = append(inTarget, mob)
		} else {
			outside = append(outside, mob)
		}
	}

	targetMean, baseMean := mean(inTarget), mean(outside)
	spike := 1.0
	if baseMean > 0 {
		spike = targetMean / baseMean
	}

	res := &Result{
		Key:            m.Key(),
		Name:           m.Name(),
		Value:          spike,
		Classification: "No Pattern",
		Totals: map[string]float64{
			"target_mean":   targetMean,
			"baseline_mean": baseMean,
			"target_rows":   float64(len(inTarget)),
			"baseline_rows": float64(len(outside)),
		},
		Notes: []string{fmt.Sprintf("target months: %v", opts.TargetMonths)},
	}
	if spike > m.SpikeThreshold {
		res.Classification = "Pattern Detected"
	}

	chart := &ChartSeries{Kind: "line", Labels: []string{}, Values: []float64{}, Secondary: []float64{}}
	for mo := 1; mo <= 12; mo++ {
		if len(perMonth[mo]) == 0 {
			continue
		}
		chart.Labels = append(chart.Labels, time.Month(mo).String()[:3])
		chart.Values = append(chart.Values, mean(perMonth[mo]))
		chart.Secondary = append(chart.Secondary, volume[mo])
	}
	res.Chart = chart
	return res, nil
}

// RowMobility is demo / (demo + bio + 1) for a single row.
func RowMobility(ms dataset.Measures) float64 {
	return float64(ms.TotalDemo()) / (float64(ms.TotalOps()) + 1)
}

func calendarMonth(r dataset.Record) int {
	if !r.Date.IsZero() {
		return int(r.Date.Month())
	}
	mk := r.MonthKey()
	if len(mk) != 7 {
		return 0
	}
	mo, err := strconv.Atoi(mk[5:])
	if err != nil {
		return 0
	}
	return mo
}
