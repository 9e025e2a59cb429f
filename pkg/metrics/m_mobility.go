package metrics

import (
	"github.com/updatelens/updatelens/pkg/dataset"
)

// MobilityMetric is the share of all activity that is demographic updates.
type MobilityMetric struct {
	TopN int
}

func (m *MobilityMetric) Key() string  { return "mobility" }
func (m *MobilityMetric) Name() string { return "Mobility Index" }

func (m *MobilityMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	return evaluateRatio(store, opts, ratioDef{
		key:      m.Key(),
		name:     m.Name(),
		fields:   dataset.AllMeasures,
		scale:    MobilityScale,
		fn:       Mobility,
		chartMul: 100,
		topN:     m.TopN,
	})
}

// Mobility computes total_demo / total_activity, or 0 with no activity.
func Mobility(ms dataset.Measures) float64 {
	return safeDiv(float64(ms.TotalDemo()), float64(ms.TotalActivity()))
}
