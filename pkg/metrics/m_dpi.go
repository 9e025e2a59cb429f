package metrics

import (
	"fmt"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// DPIMetric compares the mean demographic volume of the most recent tenth of
// periods against the first eighty percent.
type DPIMetric struct {
	TopN int
}

func (m *DPIMetric) Key() string  { return "dpi" }
func (m *DPIMetric) Name() string { return "Digital Panic Index" }

func (m *DPIMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	window := opts.Window
	if window == "" {
		window = WindowMonthly
	}
	src, period, err := periodSource(store, window)
	if err != nil {
		return nil, err
	}
	t := opts.Filter.Apply(src)

	pts, err := demoSeries(t, period)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Key:   m.Key(),
		Name:  m.Name(),
		Chart: &ChartSeries{Kind: "line", Labels: labels(pts), Values: values(pts)},
		Notes: []string{fmt.Sprintf("window: %s", window)},
	}

	dpi, baseline, recent, err := DPI(values(pts))
	if err != nil {
		return nil, err
	}
	res.Value = dpi
	res.Classification = DPIScale.Classify(dpi)
	res.Totals = map[string]float64{
		"periods":       float64(len(pts)),
		"baseline_mean": baseline,
		"recent_mean":   recent,
	}

	entity := aggregate.ByState
	if opts.level() == LevelDistrict {
		entity = aggregate.ByDistrict
	}
	series, err := demoSeriesByEntity(t, entity, period)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	skipped := 0
	for _, e := range aggregate.SortedKeys(series) {
		v, b, r, err := DPI(values(series[e]))
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, Entry{
			Entity:         e,
			Value:          v,
			Classification: DPIScale.Classify(v),
			Totals: map[string]float64{
				"periods":       float64(len(series[e])),
				"baseline_mean": b,
				"recent_mean":   r,
			},
		})
	}
	if skipped > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf("%d entities skipped: fewer than 2 periods", skipped))
	}
	rank(entries)
	res.Breakdown = truncate(entries, topN(opts, m.TopN))
	return res, nil
}

// DPI splits a time-ordered series into a baseline (first 80% of periods)
// and a recent window (last 10%) and returns recent/baseline means. An empty
// series yields 0. A series too short for both windows is an error. A zero
// baseline yields 0.
func DPI(series []float64) (dpi, baseline, recent float64, err error) {
	n := len(series)
	if n == 0 {
		return 0, 0, 0, nil
	}
	first80End := int(float64(n) * 0.8)
	last10Start := int(float64(n) * 0.9)
	if first80End == 0 || last10Start >= n {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInsufficientPeriods, n)
	}
	baseline = mean(series[:first80End])
	recent = mean(series[last10Start:])
	return safeDiv(recent, baseline), baseline, recent, nil
}
