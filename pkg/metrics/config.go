package metrics

import (
	"fmt"
	"math"
)

// Weights are the composite risk weights. They must be non-negative and sum to 1.
type Weights struct {
	BAI float64 `json:"bai" yaml:"bai"`
	GFI float64 `json:"gfi" yaml:"gfi"`
	DPI float64 `json:"dpi" yaml:"dpi"`
	CCI float64 `json:"cci" yaml:"cci"`
}

// Validate checks the weights are usable.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{"bai": w.BAI, "gfi": w.GFI, "dpi": w.DPI, "cci": w.CCI} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: weight %s = %v", ErrInvalidOption, name, v)
		}
	}
	if sum := w.BAI + w.GFI + w.DPI + w.CCI; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidOption, sum)
	}
	return nil
}

// Tuning holds the constants every metric reads.
type Tuning struct {
	// Composite risk
	Weights       Weights
	MinDPIPeriods int     // entities with fewer monthly periods get NeutralDPI
	NeutralDPI    float64 // DPI used when the series is too short

	// Concentration
	PincodesPerDistrict float64 // district-proxy multiplier

	// Anomaly detection
	DefaultSigma float64

	// Infrastructure maturity
	OpsPerDistrict float64

	// Border risk
	BorderBAIWeight  float64
	BorderGFIWeight  float64
	BorderMultiplier float64

	// Seasonal and shock analysis
	SpikeThreshold float64
	ShockWindow    int // days either side of the event

	// Breakdown length
	TopN int
}

// Defaults returns the default tuning.
func Defaults() Tuning {
	return Tuning{
		Weights:       Weights{BAI: 0.30, GFI: 0.20, DPI: 0.20, CCI: 0.30},
		MinDPIPeriods: 11,
		NeutralDPI:    1.0,

		PincodesPerDistrict: 5,

		DefaultSigma: 2,

		OpsPerDistrict: 10000,

		BorderBAIWeight:  0.6,
		BorderGFIWeight:  0.4,
		BorderMultiplier: 1.5,

		SpikeThreshold: 1.2,
		ShockWindow:    60,

		TopN: 15,
	}
}

// WithOverrides applies named weight overrides (bai, gfi, dpi, cci).
func (t Tuning) WithOverrides(weights map[string]float64) (Tuning, error) {
	if len(weights) == 0 {
		return t, nil
	}
	w := t.Weights
	for k, v := range weights {
		switch k {
		case "bai":
			w.BAI = v
		case "gfi":
			w.GFI = v
		case "dpi":
			w.DPI = v
		case "cci":
			w.CCI = v
		default:
			return t, fmt.Errorf("%w: unknown weight %q", ErrInvalidOption, k)
		}
	}
	if err := w.Validate(); err != nil {
		return t, err
	}
	t.Weights = w
	return t, nil
}
