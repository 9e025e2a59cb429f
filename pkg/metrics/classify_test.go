package metrics_test

import (
	"testing"

	"github.com/updatelens/updatelens/pkg/metrics"
)

func TestScaleBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		scale metrics.Scale
		value float64
		want  string
	}{
		{"bai at 3.0 is moderate", metrics.BAIScale, 3.0, "Moderate"},
		{"bai above 3.0", metrics.BAIScale, 3.0001, "Critical"},
		{"bai at 1.5 is normal", metrics.BAIScale, 1.5, "Normal"},
		{"gfi at 5", metrics.GFIScale, 5, "Moderate"},
		{"gfi above 5", metrics.GFIScale, 5.1, "Ghost Territory"},
		{"gfi at 2", metrics.GFIScale, 2, "Active"},
		{"cci at 300", metrics.CCIScale, 300, "High"},
		{"cci at 100", metrics.CCIScale, 100, "Moderate"},
		{"cci above 300", metrics.CCIScale, 301, "Critical"},
		{"dpi at 5", metrics.DPIScale, 5, "Moderate Panic"},
		{"dpi at 2", metrics.DPIScale, 2, "Normal"},
		{"dpi above 5", metrics.DPIScale, 5.5, "Severe Panic"},
		{"mobility at 0.7", metrics.MobilityScale, 0.7, "Moderate"},
		{"mobility at 0.4", metrics.MobilityScale, 0.4, "Stable"},
		{"mobility above 0.7", metrics.MobilityScale, 0.71, "High Churn"},
		{"sur at 0.7", metrics.SURScale, 0.7, "Mixed"},
		{"sur at 0.4", metrics.SURScale, 0.4, "Urban Dominant"},
		{"composite at 0.75", metrics.CompositeScale, 0.75, "HIGH"},
		{"composite at 0.5", metrics.CompositeScale, 0.5, "MODERATE"},
		{"composite at 0.25", metrics.CompositeScale, 0.25, "LOW"},
		{"composite zero", metrics.CompositeScale, 0, "LOW"},
		{"maturity below 0.5", metrics.MaturityScale, 0.49, "Growth"},
		{"maturity at 0.5", metrics.MaturityScale, 0.5, "Developing"},
		{"maturity at 2.0", metrics.MaturityScale, 2.0, "Mature"},
		{"shock at 50", metrics.ShockScale, 50, "Moderate"},
		{"shock at 20", metrics.ShockScale, 20, "Minimal"},
		{"engagement above 0.15", metrics.EngagementScale, 0.2, "Welfare State"},
		{"border at 3", metrics.BorderRiskScale, 3, "HIGH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scale.Classify(tt.value); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestScaleLabels(t *testing.T) {
	labels := metrics.CompositeScale.Labels()
	want := []string{"CRITICAL", "HIGH", "MODERATE", "LOW"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %v", len(want), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, labels[i], want[i])
		}
	}
}
