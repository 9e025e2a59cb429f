package metrics

// DefaultMetrics returns the standard metric set with default tuning.
func DefaultMetrics() []Metric {
	return MetricsFor(Defaults())
}

// MetricsFor returns the standard metric set with the given tuning.
func MetricsFor(t Tuning) []Metric {
	return []Metric{
		&DPIMetric{TopN: t.TopN},
		&BAIMetric{TopN: t.TopN},
		&SURMetric{TopN: t.TopN},
		&EngagementMetric{TopN: t.TopN},
		&GFIMetric{TopN: t.TopN},
		&CCIMetric{
			PincodesPerDistrict: t.PincodesPerDistrict,
			TopN:                t.TopN,
		},
		&MobilityMetric{TopN: t.TopN},
		&CompositeMetric{
			Weights:             t.Weights,
			MinDPIPeriods:       t.MinDPIPeriods,
			NeutralDPI:          t.NeutralDPI,
			PincodesPerDistrict: t.PincodesPerDistrict,
			TopN:                t.TopN,
		},
		&AnomalyMetric{DefaultSigma: t.DefaultSigma},
		&MaturityMetric{
			OpsPerDistrict:      t.OpsPerDistrict,
			PincodesPerDistrict: t.PincodesPerDistrict,
			TopN:                t.TopN,
		},
		&BorderRiskMetric{
			BAIWeight:  t.BorderBAIWeight,
			GFIWeight:  t.BorderGFIWeight,
			Multiplier: t.BorderMultiplier,
			TopN:       t.TopN,
		},
		&SeasonalMetric{SpikeThreshold: t.SpikeThreshold},
		&ShockMetric{WindowDays: t.ShockWindow},
	}
}
