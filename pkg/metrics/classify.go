package metrics

// Band is one step of a classification scale.
type Band struct {
	Threshold float64
	Label     string
}

// Scale maps a value to a label. Bands are checked in order; the first band
// whose threshold the value exceeds wins. Comparisons are strict unless
// Inclusive is set. Values matching no band get Floor.
type Scale struct {
	Bands     []Band
	Floor     string
	Inclusive bool
}

// Classify returns the label for v.
func (s Scale) Classify(v float64) string {
	for _, b := range s.Bands {
		if v > b.Threshold || (s.Inclusive && v == b.Threshold) {
			return b.Label
		}
	}
	return s.Floor
}

// Labels lists every label from highest band to floor.
func (s Scale) Labels() []string {
	out := make([]string, 0, len(s.Bands)+1)
	for _, b := range s.Bands {
		out = append(out, b.Label)
	}
	return append(out, s.Floor)
}

var (
	BAIScale = Scale{
		Bands: []Band{{3.0, "Critical"}, {1.5, "Moderate"}},
		Floor: "Normal",
	}
	GFIScale = Scale{
		Bands: []Band{{5, "Ghost Territory"}, {2, "Moderate"}},
		Floor: "Active",
	}
	CCIScale = Scale{
		Bands: []Band{{300, "Critical"}, {100, "High"}},
		Floor: "Moderate",
	}
	DPIScale = Scale{
		Bands: []Band{{5, "Severe Panic"}, {2, "Moderate Panic"}},
		Floor: "Normal",
	}
	MobilityScale = Scale{
		Bands: []Band{{0.7, "High Churn"}, {0.4, "Moderate"}},
		Floor: "Stable",
	}
	SURScale = Scale{
		Bands: []Band{{0.7, "High Welfare"}, {0.4, "Mixed"}},
		Floor: "Urban Dominant",
	}
	EngagementScale = Scale{
		Bands: []Band{{0.15, "Welfare State"}, {0.08, "Mixed"}},
		Floor: "Low Engagement",
	}
	CompositeScale = Scale{
		Bands: []Band{{0.75, "CRITICAL"}, {0.5, "HIGH"}, {0.25, "MODERATE"}},
		Floor: "LOW",
	}
	BorderRiskScale = Scale{
		Bands: []Band{{3, "CRITICAL"}, {2, "HIGH"}},
		Floor: "MODERATE",
	}
	// MaturityScale: below 0.5 is Growth, below 2.0 Developing, otherwise Mature.
	MaturityScale = Scale{
		Bands:     []Band{{2.0, "Mature"}, {0.5, "Developing"}},
		Floor:     "Growth",
		Inclusive: true,
	}
	// ShockScale is applied to the absolute percentage change.
	ShockScale = Scale{
		Bands: []Band{{50, "Severe"}, {20, "Moderate"}},
		Floor: "Minimal",
	}
)
