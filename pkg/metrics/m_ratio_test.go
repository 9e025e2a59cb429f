package metrics_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
	"github.com/updatelens/updatelens/pkg/metrics"
)

func TestBAIMetric_Fixture(t *testing.T) {
	m := &metrics.BAIMetric{TopN: 15}
	res, err := m.Evaluate(fixtureStore(), metrics.Options{})
	require.NoError(t, err)

	// demo 840, bio 278
	assert.Equal(t, "bai", res.Key)
	assert.InDelta(t, 840.0/279.0, res.Value, 1e-9)
	assert.Equal(t, "Critical", res.Classification)

	require.Len(t, res.Breakdown, 3)
	assert.Equal(t, "Assam", res.Breakdown[0].Entity)
	assert.Equal(t, "Critical", res.Breakdown[0].Classification)
	assert.Equal(t, "West Bengal", res.Breakdown[1].Entity)
	assert.InDelta(t, 3.0, res.Breakdown[1].Value, 1e-12)
	assert.Equal(t, "Moderate", res.Breakdown[1].Classification)
	assert.Equal(t, "Kerala", res.Breakdown[2].Entity)

	require.NotNil(t, res.Chart)
	assert.Equal(t, []string{"Assam", "West Bengal", "Kerala"}, res.Chart.Labels)
}

func TestBAIMetric_TopN(t *testing.T) {
	m := &metrics.BAIMetric{TopN: 15}
	res, err := m.Evaluate(fixtureStore(), metrics.Options{TopN: 1})
	require.NoError(t, err)
	require.Len(t, res.Breakdown, 1)
	assert.Equal(t, "Assam", res.Breakdown[0].Entity)
}

func TestBAIMetric_DistrictLevel(t *testing.T) {
	m := &metrics.BAIMetric{}
	res, err := m.Evaluate(fixtureStore(), metrics.Options{Level: metrics.LevelDistrict})
	require.NoError(t, err)
	require.Len(t, res.Breakdown, 5)
	// Guwahati: 300 / 51
	assert.Equal(t, "Assam / Guwahati", res.Breakdown[0].Entity)
	assert.InDelta(t, 300.0/51.0, res.Breakdown[0].Value, 1e-9)
}

func TestBAIMetric_EmptyFilter(t *testing.T) {
	m := &metrics.BAIMetric{}
	res, err := m.Evaluate(fixtureStore(), metrics.Options{Filter: dataset.Filter{State: "Goa"}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
	assert.Equal(t, "Normal", res.Classification)
	assert.Empty(t, res.Breakdown)
}

func TestBAIMetric_StateVariantsMerge(t *testing.T) {
	tbl, err := dataset.DecodeBytes([]byte(`[
		{"state":"WESTBENGAL","demo_adult":10,"bio_adult":1},
		{"state":"West Bangal","demo_adult":20,"bio_adult":1},
		{"state":"West Bengal","demo_adult":30,"bio_adult":1}
	]`), dataset.KindStateSummary)
	require.NoError(t, err)

	res, err := (&metrics.BAIMetric{}).Evaluate(&dataset.Store{State: tbl}, metrics.Options{})
	require.NoError(t, err)
	require.Len(t, res.Breakdown, 1)
	assert.Equal(t, "West Bengal", res.Breakdown[0].Entity)
	assert.InDelta(t, 60.0/4.0, res.Breakdown[0].Value, 1e-12)
}

func TestRatioMetrics_FilterRoundTrip(t *testing.T) {
	store := fixtureStore()
	groups, err := aggregate.GroupSum(store.State, aggregate.ByState, dataset.AllMeasures)
	require.NoError(t, err)

	for _, m := range []metrics.Metric{&metrics.BAIMetric{}, &metrics.GFIMetric{}, &metrics.MobilityMetric{}} {
		for state, g := range groups {
			res, err := m.Evaluate(store, metrics.Options{Filter: dataset.Filter{State: state}})
			require.NoError(t, err)
			for k, v := range g.Totals() {
				assert.Equal(t, v, res.Totals[k], "%s %s %s", m.Key(), state, k)
			}
			require.Len(t, res.Breakdown, 1)
			assert.Equal(t, res.Value, res.Breakdown[0].Value, "%s %s", m.Key(), state)
		}
	}
}

func TestGFIMetric_Fixture(t *testing.T) {
	res, err := (&metrics.GFIMetric{}).Evaluate(fixtureStore(), metrics.Options{})
	require.NoError(t, err)
	// enrol 630, ops 1118
	assert.InDelta(t, 630.0/1119.0, res.Value, 1e-9)
	assert.Equal(t, "Active", res.Classification)
	assert.Equal(t, "Kerala", res.Breakdown[0].Entity)
	assert.InDelta(t, 600.0/121.0, res.Breakdown[0].Value, 1e-9)
	assert.Equal(t, "Moderate", res.Breakdown[0].Classification)
}

func TestMobilityMetric_Fixture(t *testing.T) {
	res, err := (&metrics.MobilityMetric{}).Evaluate(fixtureStore(), metrics.Options{})
	require.NoError(t, err)
	// demo 840, activity 1748
	assert.InDelta(t, 840.0/1748.0, res.Value, 1e-9)
	assert.Equal(t, "Moderate", res.Classification)
	require.NotNil(t, res.Chart)
	assert.InDelta(t, res.Breakdown[0].Value*100, res.Chart.Values[0], 1e-9)
}

func TestMobility_ZeroActivity(t *testing.T) {
	assert.Equal(t, 0.0, metrics.Mobility(dataset.Measures{}))
	assert.Equal(t, 0.0, metrics.BAI(dataset.Measures{}))
	assert.Equal(t, 0.0, metrics.GFI(dataset.Measures{}))
	assert.Equal(t, 0.0, metrics.CCI(dataset.Measures{DemoAdult: 5}, 0))
}

func TestRatioFunctions_NonNegativeAndFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		m := ms(rng.Int63n(1e6), rng.Int63n(1e6), rng.Int63n(1e6), rng.Int63n(1e6), rng.Int63n(1e6), rng.Int63n(1e6), rng.Int63n(1e6))
		if i%7 == 0 {
			m = dataset.Measures{}
		}
		centers := float64(rng.Intn(10))
		for name, v := range map[string]float64{
			"bai":      metrics.BAI(m),
			"gfi":      metrics.GFI(m),
			"cci":      metrics.CCI(m, centers),
			"mobility": metrics.Mobility(m),
		} {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s produced %v for %+v", name, v, m)
			}
		}
	}
}
