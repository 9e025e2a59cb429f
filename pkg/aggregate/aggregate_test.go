package aggregate_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/updatelens/updatelens/pkg/aggregate"
	"github.com/updatelens/updatelens/pkg/dataset"
)

func sampleTable() *dataset.Table {
	return dataset.NewTable(dataset.KindActivity, []dataset.Record{
		{State: "West Bengal", District: "Kolkata", Pincode: "700001", Month: "2025-01", Measures: dataset.Measures{DemoAdult: 10, BioAdult: 1}},
		{State: "West Bengal", District: "Kolkata", Pincode: "700002", Month: "2025-02", Measures: dataset.Measures{DemoAdult: 5, EnrolInfant: 2}},
		{State: "West Bengal", District: "Howrah", Pincode: "711101", Month: "2025-04", Measures: dataset.Measures{DemoChild: 3}},
		{State: "Kerala", District: "Kochi", Pincode: "682001", Month: "2025-01", Measures: dataset.Measures{BioChild: 7}},
		{State: "Kerala", District: "Kochi", Pincode: "682001", Month: "2025-02", Measures: dataset.Measures{BioChild: 1}},
	})
}

func TestGroupSumByState(t *testing.T) {
	groups, err := aggregate.GroupSum(sampleTable(), aggregate.ByState, dataset.AllMeasures)
	if err != nil {
		t.Fatalf("GroupSum: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	wb := groups["West Bengal"]
	if wb.Rows != 3 {
		t.Errorf("expected 3 rows for West Bengal, got %d", wb.Rows)
	}
	if wb.TotalDemo() != 18 || wb.TotalBio() != 1 || wb.TotalEnrol() != 2 {
		t.Errorf("unexpected West Bengal totals %+v", wb.Measures)
	}
	if groups["Kerala"].TotalBio() != 8 {
		t.Errorf("expected Kerala bio 8, got %d", groups["Kerala"].TotalBio())
	}
}

func TestGroupSumOnlyRequestedFields(t *testing.T) {
	groups, err := aggregate.GroupSum(sampleTable(), aggregate.ByState, dataset.DemoFields)
	if err != nil {
		t.Fatalf("GroupSum: %v", err)
	}
	if groups["West Bengal"].TotalBio() != 0 {
		t.Errorf("bio fields were not requested, got %d", groups["West Bengal"].TotalBio())
	}
}

func TestGroupSumMissingField(t *testing.T) {
	tbl, err := dataset.DecodeBytes([]byte(`[{"state":"Goa","demo_adult":3}]`), dataset.KindStateSummary)
	if err != nil {
		t.Fatal(err)
	}
	_, err = aggregate.GroupSum(tbl, aggregate.ByState, dataset.BioFields)
	if !errors.Is(err, aggregate.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}

	empty := &dataset.Table{Kind: dataset.KindStateSummary}
	groups, err := aggregate.GroupSum(empty, aggregate.ByState, dataset.BioFields)
	if err != nil || len(groups) != 0 {
		t.Errorf("empty table should yield no groups and no error, got %v, %v", groups, err)
	}
}

func TestGroupSumAdditive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	states := []string{"Goa", "Kerala", "Assam"}
	var records []dataset.Record
	for i := 0; i < 200; i++ {
		records = append(records, dataset.Record{
			State: states[rng.Intn(len(states))],
			Measures: dataset.Measures{
				DemoChild:   rng.Int63n(100),
				DemoAdult:   rng.Int63n(100),
				BioChild:    rng.Int63n(100),
				BioAdult:    rng.Int63n(100),
				EnrolInfant: rng.Int63n(100),
				EnrolChild:  rng.Int63n(100),
				EnrolAdult:  rng.Int63n(100),
			},
		})
	}

	whole, err := aggregate.GroupSum(dataset.NewTable(dataset.KindStateSummary, records), aggregate.ByState, dataset.AllMeasures)
	if err != nil {
		t.Fatal(err)
	}
	left, _ := aggregate.GroupSum(dataset.NewTable(dataset.KindStateSummary, records[:73]), aggregate.ByState, dataset.AllMeasures)
	right, _ := aggregate.GroupSum(dataset.NewTable(dataset.KindStateSummary, records[73:]), aggregate.ByState, dataset.AllMeasures)

	for _, s := range states {
		combined := left[s].Measures.Add(right[s].Measures)
		if combined != whole[s].Measures {
			t.Errorf("%s: partition sum %+v != whole %+v", s, combined, whole[s].Measures)
		}
		if left[s].Rows+right[s].Rows != whole[s].Rows {
			t.Errorf("%s: row counts do not add up", s)
		}
	}
}

func TestGroupSumByPeriod(t *testing.T) {
	byMonth, _ := aggregate.GroupSum(sampleTable(), aggregate.ByMonth, dataset.AllMeasures)
	if len(byMonth) != 3 {
		t.Errorf("expected 3 months, got %v", aggregate.SortedKeys(byMonth))
	}
	byQuarter, _ := aggregate.GroupSum(sampleTable(), aggregate.ByQuarter, dataset.AllMeasures)
	keys := aggregate.SortedKeys(byQuarter)
	if len(keys) != 2 || keys[0] != "2025-Q1" || keys[1] != "2025-Q2" {
		t.Errorf("unexpected quarters %v", keys)
	}
}

func TestDistinct(t *testing.T) {
	pins := aggregate.Distinct(sampleTable(), aggregate.ByState, aggregate.ByPincode)
	if pins["West Bengal"] != 3 {
		t.Errorf("expected 3 West Bengal pincodes, got %d", pins["West Bengal"])
	}
	if pins["Kerala"] != 1 {
		t.Errorf("expected 1 Kerala pincode, got %d", pins["Kerala"])
	}
	districts := aggregate.Distinct(sampleTable(), aggregate.ByState, aggregate.ByDistrict)
	if districts["West Bengal"] != 2 {
		t.Errorf("expected 2 West Bengal districts, got %d", districts["West Bengal"])
	}
}

func TestQuarterOf(t *testing.T) {
	tests := map[string]string{
		"2025-01": "2025-Q1",
		"2025-03": "2025-Q1",
		"2025-04": "2025-Q2",
		"2025-12": "2025-Q4",
		"2025-13": "",
		"":        "",
	}
	for in, want := range tests {
		if got := aggregate.QuarterOf(in); got != want {
			t.Errorf("QuarterOf(%q) = %q, want %q", in, got, want)
		}
	}
}
