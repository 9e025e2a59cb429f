package metrics_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/updatelens/updatelens/pkg/dataset"
	"github.com/updatelens/updatelens/pkg/metrics"
)

func TestEngineRunWithFixtures(t *testing.T) {
	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	store := fixtureStore()

	for _, key := range []string{"bai", "gfi", "mobility", "dpi", "composite", "anomaly", "maturity", "border_risk", "engagement"} {
		t.Run(key, func(t *testing.T) {
			before := time.Now().UTC()
			res, err := engine.Run(store, key, metrics.Options{Filter: dataset.Filter{State: "  west   bengal "}})
			if err != nil {
				t.Fatalf("Run(%s) error: %v", key, err)
			}
			if res.Key != key {
				t.Errorf("Key = %q, want %q", res.Key, key)
			}
			if res.Classification == "" {
				t.Error("expected a classification")
			}
			if res.RunID == "" {
				t.Error("expected a run ID")
			}
			if res.ComputedAt.Before(before) || res.ComputedAt.Location() != time.UTC {
				t.Errorf("unexpected ComputedAt %v", res.ComputedAt)
			}
			if res.Filter.State != "West Bengal" {
				t.Errorf("Filter.State = %q, want normalized name", res.Filter.State)
			}
		})
	}
}

func TestEngineRunIDsAreUnique(t *testing.T) {
	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	a, err := engine.Run(fixtureStore(), "bai", metrics.Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := engine.Run(fixtureStore(), "bai", metrics.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.RunID == b.RunID {
		t.Errorf("expected distinct run IDs, both %q", a.RunID)
	}
	if a.Value != b.Value {
		t.Errorf("repeat evaluation changed value: %v vs %v", a.Value, b.Value)
	}
}

func TestEngineUnknownMetric(t *testing.T) {
	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	_, err := engine.Run(fixtureStore(), "nope", metrics.Options{})
	if !errors.Is(err, metrics.ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestEngineInvalidOptions(t *testing.T) {
	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	bad := metrics.Weights{BAI: 2}
	tests := []struct {
		name string
		opts metrics.Options
	}{
		{"level", metrics.Options{Level: "country"}},
		{"window", metrics.Options{Window: "weekly"}},
		{"sigma", metrics.Options{Sigma: -1}},
		{"top n", metrics.Options{TopN: -3}},
		{"weights", metrics.Options{Weights: &bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Run(fixtureStore(), "bai", tt.opts)
			if !errors.Is(err, metrics.ErrInvalidOption) {
				t.Errorf("expected ErrInvalidOption, got %v", err)
			}
		})
	}
}

func TestEngineWrapsMetricErrors(t *testing.T) {
	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	_, err := engine.Run(fixtureStore(), "cci", metrics.Options{})
	if !errors.Is(err, metrics.ErrPincodeModeRequired) {
		t.Fatalf("expected ErrPincodeModeRequired, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "cci: ") {
		t.Errorf("expected error prefixed with metric key, got %q", err.Error())
	}
}

func TestEngineNilStore(t *testing.T) {
	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	if _, err := engine.Run(nil, "bai", metrics.Options{}); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestEngineKeys(t *testing.T) {
	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	keys := engine.Keys()
	if len(keys) != 13 {
		t.Fatalf("expected 13 metrics, got %d: %v", len(keys), keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("keys not sorted: %v", keys)
		}
	}
	if len(engine.Metrics()) != 13 {
		t.Errorf("Metrics() = %d entries", len(engine.Metrics()))
	}
}

func TestNewEngineDuplicateReplaces(t *testing.T) {
	engine := metrics.NewEngine(&metrics.BAIMetric{TopN: 1}, &metrics.GFIMetric{}, &metrics.BAIMetric{TopN: 2})
	if n := len(engine.Metrics()); n != 2 {
		t.Fatalf("expected 2 metrics, got %d", n)
	}
	m, err := engine.Lookup("bai")
	if err != nil {
		t.Fatal(err)
	}
	if m.(*metrics.BAIMetric).TopN != 2 {
		t.Error("expected the later registration to win")
	}
	if engine.Metrics()[0].Key() != "bai" {
		t.Error("expected registration order to be kept")
	}
}

func TestEngineDoesNotMutateStore(t *testing.T) {
	store := fixtureStore()
	before := len(store.State.Records)
	first := store.State.Records[0]

	engine := metrics.NewEngine(metrics.DefaultMetrics()...)
	for _, key := range []string{"bai", "composite", "anomaly"} {
		if _, err := engine.Run(store, key, metrics.Options{Filter: dataset.Filter{State: "Kerala"}}); err != nil {
			t.Fatal(err)
		}
	}
	if len(store.State.Records) != before || store.State.Records[0] != first {
		t.Error("evaluation modified the input table")
	}
}

func TestEngineWeights(t *testing.T) {
	if got := metrics.NewEngine(metrics.DefaultMetrics()...).Weights(); got != metrics.Defaults().Weights {
		t.Errorf("Weights() = %+v, want defaults", got)
	}

	tuning, err := metrics.Defaults().WithOverrides(map[string]float64{"bai": 0.1, "cci": 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if got := metrics.NewEngine(metrics.MetricsFor(tuning)...).Weights(); got != tuning.Weights {
		t.Errorf("Weights() = %+v, want %+v", got, tuning.Weights)
	}
}
