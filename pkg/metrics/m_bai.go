package metrics

import (
	"github.com/updatelens/updatelens/pkg/dataset"
)

// BAIMetric measures how far demographic updates outpace biometric ones:
// total_demo / (total_bio + 1).
type BAIMetric struct {
	TopN int
}

func (m *BAIMetric) Key() string  { return "bai" }
func (m *BAIMetric) Name() string { return "Biometric Avoidance Index" }

func (m *BAIMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	return evaluateRatio(store, opts, ratioDef{
		key:    m.Key(),
		name:   m.Name(),
		fields: dataset.OpsFields,
		scale:  BAIScale,
		fn:     BAI,
		topN:   m.TopN,
	})
}

// BAI computes the avoidance index for summed measures.
func BAI(ms dataset.Measures) float64 {
	return float64(ms.TotalDemo()) / (float64(ms.TotalBio()) + 1)
}
