package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updatelens/updatelens/pkg/dataset"
	"github.com/updatelens/updatelens/pkg/metrics"
)

func TestMaturityMetric_Bands(t *testing.T) {
	district := dataset.NewTable(dataset.KindDistrictSummary, []dataset.Record{
		{State: "Punjab", District: "Amritsar", Measures: ms(0, 25000, 0, 0, 0, 0, 0)},
		{State: "Goa", District: "North Goa", Measures: ms(0, 10000, 0, 0, 0, 0, 0)},
		{State: "Goa", District: "South Goa", Measures: ms(0, 0, 0, 0, 0, 0, 0)},
		{State: "Sikkim", District: "Gangtok", Measures: ms(0, 4999, 0, 0, 0, 0, 0)},
	})
	m := &metrics.MaturityMetric{OpsPerDistrict: 10000, PincodesPerDistrict: 5}
	res, err := m.Evaluate(&dataset.Store{District: district}, metrics.Options{})
	require.NoError(t, err)

	require.Len(t, res.Breakdown, 3)
	assert.Equal(t, "Punjab", res.Breakdown[0].Entity)
	assert.InDelta(t, 2.5, res.Breakdown[0].Value, 1e-12)
	assert.Equal(t, "Mature", res.Breakdown[0].Classification)
	assert.InDelta(t, 5000.0, res.Breakdown[0].Scores["cci"], 1e-9)

	assert.Equal(t, "Goa", res.Breakdown[1].Entity)
	assert.InDelta(t, 0.5, res.Breakdown[1].Value, 1e-12)
	assert.Equal(t, "Developing", res.Breakdown[1].Classification)
	assert.Equal(t, 2.0, res.Breakdown[1].Totals["districts"])

	assert.Equal(t, "Sikkim", res.Breakdown[2].Entity)
	assert.Equal(t, "Growth", res.Breakdown[2].Classification)

	assert.InDelta(t, 39999.0/40000.0, res.Value, 1e-12)
	assert.Equal(t, "Developing", res.Classification)
}

func TestMaturityMetric_Fixture(t *testing.T) {
	m := &metrics.MaturityMetric{OpsPerDistrict: 10000, PincodesPerDistrict: 5}
	res, err := m.Evaluate(fixtureStore(), metrics.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1118.0/50000.0, res.Value, 1e-12)
	assert.Equal(t, "Growth", res.Classification)
	assert.Equal(t, 5.0, res.Totals["districts"])
}

func TestBorderRiskMetric_Fixture(t *testing.T) {
	m := &metrics.BorderRiskMetric{BAIWeight: 0.6, GFIWeight: 0.4, Multiplier: 1.5}
	res, err := m.Evaluate(fixtureStore(), metrics.Options{})
	require.NoError(t, err)

	require.Len(t, res.Breakdown, 3)
	assert.Equal(t, "Assam", res.Breakdown[0].Entity)
	assert.InDelta(t, 4.5, res.Breakdown[0].Value, 1e-12)
	assert.Equal(t, "CRITICAL", res.Breakdown[0].Classification)
	assert.Equal(t, []string{"border"}, res.Breakdown[0].Flags)

	assert.Equal(t, "West Bengal", res.Breakdown[1].Entity)
	assert.InDelta(t, (3.0*0.6+0.075*0.4)*1.5, res.Breakdown[1].Value, 1e-12)
	assert.Equal(t, "HIGH", res.Breakdown[1].Classification)

	assert.Equal(t, "Kerala", res.Breakdown[2].Entity)
	assert.InDelta(t, 40.0/81.0*0.6+600.0/121.0*0.4, res.Breakdown[2].Value, 1e-12)
	assert.Empty(t, res.Breakdown[2].Flags)

	assert.InDelta(t, 4.5, res.Value, 1e-12)
	assert.Equal(t, "CRITICAL", res.Classification)
	assert.Equal(t, 2.0, res.Totals["border_states"])
}

func TestBorderRiskMetric_Empty(t *testing.T) {
	m := &metrics.BorderRiskMetric{BAIWeight: 0.6, GFIWeight: 0.4, Multiplier: 1.5}
	res, err := m.Evaluate(fixtureStore(), metrics.Options{Filter: dataset.Filter{State: "Goa"}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
	assert.Equal(t, "MODERATE", res.Classification)
}
