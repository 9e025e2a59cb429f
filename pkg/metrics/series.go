package metrics

import (
	"fmt"
	"strings"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

// point is one period of a time series.
type point struct {
	Period string
	Value  float64
}

func values(pts []point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

func labels(pts []point) []string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = p.Period
	}
	return out
}

// periodSource picks the table and period key for a time window.
func periodSource(store *dataset.Store, window TimeWindow) (*dataset.Table, aggregate.KeyFunc, error) {
	switch window {
	case WindowDaily:
		t, err := requireTable(store, dataset.KindDistrictDaily)
		return t, aggregate.ByDate, err
	case WindowQuarterly:
		t, err := requireTable(store, dataset.KindMonthlySummary)
		return t, aggregate.ByQuarter, err
	case "", WindowMonthly:
		t, err := requireTable(store, dataset.KindMonthlySummary)
		return t, aggregate.ByMonth, err
	}
	return nil, nil, fmt.Errorf("%w: window %q", ErrInvalidOption, window)
}

// demoSeries sums total_demo per period, in period order.
func demoSeries(t *dataset.Table, period aggregate.KeyFunc) ([]point, error) {
	groups, err := aggregate.GroupSum(t, period, dataset.DemoFields)
	if err != nil {
		return nil, err
	}
	pts := make([]point, 0, len(groups))
	for _, k := range aggregate.SortedKeys(groups) {
		pts = append(pts, point{Period: k, Value: float64(groups[k].TotalDemo())})
	}
	return pts, nil
}

const seriesSep = "\x00"

// demoSeriesByEntity sums total_demo per (entity, period) and returns each
// entity's series in period order.
func demoSeriesByEntity(t *dataset.Table, entity, period aggregate.KeyFunc) (map[string][]point, error) {
	groups, err := aggregate.GroupSum(t, func(r dataset.Record) string {
		e, p := entity(r), period(r)
		if e == "" || p == "" {
			return ""
		}
		return e + seriesSep + p
	}, dataset.DemoFields)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]point)
	for _, k := range aggregate.SortedKeys(groups) {
		e, p, _ := strings.Cut(k, seriesSep)
		out[e] = append(out[e], point{Period: p, Value: float64(groups[k].TotalDemo())})
	}
	return out, nil
}
