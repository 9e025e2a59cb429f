package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCanonicalState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WESTBENGAL", "West Bengal"},
		{"West Bangal", "West Bengal"},
		{"West Bengal", "West Bengal"},
		{"  west   bengli ", "West Bengal"},
		{"TAMILNADU", "Tamil Nadu"},
		{"jammu and kashmir", "Jammu and Kashmir"},
		{"Dadra and Nagar Haveli", "Dadra and Nagar Haveli"},
		{"MAHARASHTRA", "Maharashtra"},
		{"andaman & nicobar islands", "Andaman & Nicobar Islands"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CanonicalState(tt.in); got != tt.want {
				t.Errorf("CanonicalState(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalStateIdempotent(t *testing.T) {
	for _, in := range []string{"WESTBENGAL", "uttar pradesh", "Goa", "daman and diu"} {
		once := CanonicalState(in)
		if twice := CanonicalState(once); twice != once {
			t.Errorf("CanonicalState not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestDecodeStateSummary(t *testing.T) {
	data := `[
		{"state":"WESTBENGAL","demo_child":10,"demo_adult":5,"bio_child":1,"bio_adult":2,"enrol_infant":3,"enrol_child":0,"enrol_adult":1},
		{"state":"West Bangal","demo_child":1.0,"demo_adult":0}
	]`
	tbl, err := DecodeBytes([]byte(data), KindStateSummary)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(tbl.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(tbl.Records))
	}
	for _, r := range tbl.Records {
		if r.State != "West Bengal" {
			t.Errorf("expected canonical state West Bengal, got %q", r.State)
		}
	}
	r := tbl.Records[0]
	if r.TotalDemo() != 15 || r.TotalBio() != 3 || r.TotalEnrol() != 4 {
		t.Errorf("unexpected totals demo=%d bio=%d enrol=%d", r.TotalDemo(), r.TotalBio(), r.TotalEnrol())
	}
	if r.TotalOps() != 18 || r.TotalActivity() != 22 {
		t.Errorf("unexpected ops=%d activity=%d", r.TotalOps(), r.TotalActivity())
	}
	if tbl.Fields != AllMeasures {
		t.Errorf("expected all measures present, got %s", tbl.Fields)
	}
	if tbl.Records[1].BioAdult != 0 {
		t.Errorf("missing measure should default to 0, got %d", tbl.Records[1].BioAdult)
	}
}

func TestDecodeFieldPresence(t *testing.T) {
	data := `[{"state":"Goa","demo_child":1},{"state":"Goa","demo_adult":2}]`
	tbl, err := DecodeBytes([]byte(data), KindStateSummary)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tbl.Fields != DemoFields {
		t.Errorf("expected only demo fields present, got %s", tbl.Fields)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		data string
	}{
		{"string measure", KindStateSummary, `[{"state":"Goa","demo_child":"ten"}]`},
		{"negative measure", KindStateSummary, `[{"state":"Goa","bio_adult":-1}]`},
		{"fractional measure", KindStateSummary, `[{"state":"Goa","bio_adult":1.5}]`},
		{"measure out of range", KindStateSummary, `[{"state":"Goa","demo_child":1e20}]`},
		{"missing state", KindStateSummary, `[{"demo_child":1}]`},
		{"missing district", KindDistrictSummary, `[{"state":"Goa","demo_child":1}]`},
		{"bad month", KindMonthlySummary, `[{"state":"Goa","district":"North Goa","month":"March"}]`},
		{"missing date", KindDistrictDaily, `[{"state":"Goa","district":"North Goa"}]`},
		{"bad date", KindDistrictDaily, `[{"state":"Goa","district":"North Goa","date":"yesterday"}]`},
		{"missing pincode", KindActivity, `[{"state":"Goa","district":"North Goa"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.data), tt.kind)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestDecodeNotArray(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"state":"Goa"}`), KindStateSummary)
	if err == nil {
		t.Fatal("expected error for non-array input")
	}
}

func TestDecodeDailyDates(t *testing.T) {
	data := `[
		{"state":"Goa","district":"North Goa","date":"2025-03-01T00:00:00.000","demo_child":1},
		{"state":"Goa","district":"North Goa","date":"2025-03-02","demo_child":1},
		{"state":"Goa","district":"North Goa","date":"03-03-2025","demo_child":1}
	]`
	tbl, err := DecodeBytes([]byte(data), KindDistrictDaily)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, want := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		if got := tbl.Records[i].Date.Format("2006-01-02"); got != want {
			t.Errorf("record %d date = %s, want %s", i, got, want)
		}
		if got := tbl.Records[i].MonthKey(); got != "2025-03" {
			t.Errorf("record %d month = %s, want 2025-03", i, got)
		}
	}
}

func TestDecodeNumericPincode(t *testing.T) {
	data := `[{"state":"Goa","district":"North Goa","pincode":403001,"demo_adult":4}]`
	tbl, err := DecodeBytes([]byte(data), KindActivity)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tbl.Records[0].Pincode != "403001" {
		t.Errorf("expected pincode 403001, got %q", tbl.Records[0].Pincode)
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, KindStateSummary.FileName())
	if err := os.WriteFile(path, []byte(`[{"state":"Kerala","enrol_adult":7}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadTable(path, KindStateSummary)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl.Len() != 1 || tbl.Records[0].EnrolAdult != 7 {
		t.Errorf("unexpected table %+v", tbl.Records)
	}

	if _, err := LoadTable(filepath.Join(dir, "missing.json"), KindStateSummary); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFilterApply(t *testing.T) {
	tbl := NewTable(KindDistrictSummary, []Record{
		{State: "West Bengal", District: "Kolkata", Measures: Measures{DemoAdult: 1}},
		{State: "West Bengal", District: "Howrah", Measures: Measures{DemoAdult: 2}},
		{State: "Kerala", District: "Kochi", Measures: Measures{DemoAdult: 4}},
	})

	got := Filter{State: "WESTBENGAL"}.Apply(tbl)
	if got.Len() != 2 {
		t.Errorf("expected 2 West Bengal rows, got %d", got.Len())
	}
	got = Filter{State: "west bengal", District: " Howrah "}.Apply(tbl)
	if got.Len() != 1 || got.Records[0].DemoAdult != 2 {
		t.Errorf("expected only Howrah, got %+v", got.Records)
	}
	if all := (Filter{}).Apply(tbl); all.Len() != 3 {
		t.Errorf("empty filter should keep all rows, got %d", all.Len())
	}
	if none := (Filter{State: "Goa"}).Apply(tbl); none.Len() != 0 {
		t.Errorf("expected no rows for Goa, got %d", none.Len())
	}
}

func TestPopulation(t *testing.T) {
	if got := Population("UTTARPRADESH"); got != 200_000_000 {
		t.Errorf("Population(Uttar Pradesh) = %v", got)
	}
	if got := Population("Atlantis"); got != DefaultPopulation {
		t.Errorf("unknown state should use default, got %v", got)
	}
	if !IsBorderState("westbengal") {
		t.Error("expected West Bengal to be a border state")
	}
	if IsBorderState("Kerala") {
		t.Error("Kerala is not a border state")
	}
}

func TestFieldSet(t *testing.T) {
	fs := Fields(FieldDemoChild, FieldBioAdult)
	if fs.Len() != 2 || !fs.Has(FieldDemoChild) || fs.Has(FieldEnrolAdult) {
		t.Errorf("unexpected field set %s", fs)
	}
	if !strings.Contains(AllMeasures.String(), "enrol_infant") {
		t.Errorf("expected enrol_infant in %s", AllMeasures)
	}
	f, err := ParseField("bio_child")
	if err != nil || f != FieldBioChild {
		t.Errorf("ParseField(bio_child) = %v, %v", f, err)
	}
	if _, err := ParseField("nope"); err == nil {
		t.Error("expected error for unknown field")
	}
	m := Measures{DemoChild: 1, BioAdult: 2, EnrolAdult: 3}.Only(fs)
	if m.EnrolAdult != 0 || m.DemoChild != 1 || m.BioAdult != 2 {
		t.Errorf("Only kept wrong fields: %+v", m)
	}
}
