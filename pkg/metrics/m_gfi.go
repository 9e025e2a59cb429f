package metrics

import (
	"github.com/updatelens/updatelens/pkg/dataset"
)

// GFIMetric flags regions with many enrolments and few later updates:
// total_enrol / (total_updates + 1).
type GFIMetric struct {
	TopN int
}

func (m *GFIMetric) Key() string  { return "gfi" }
func (m *GFIMetric) Name() string { return "Ghost Fraud Index" }

func (m *GFIMetric) Evaluate(store *dataset.Store, opts Options) (*Result, error) {
	return evaluateRatio(store, opts, ratioDef{
		key:    m.Key(),
		name:   m.Name(),
		fields: dataset.AllMeasures,
		scale:  GFIScale,
		fn:     GFI,
		topN:   m.TopN,
	})
}

// GFI computes the ghost index for summed measures. Updates are demographic
// plus biometric operations.
func GFI(ms dataset.Measures) float64 {
	return float64(ms.TotalEnrol()) / (float64(ms.TotalOps()) + 1)
}
