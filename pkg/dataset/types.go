// Package dataset defines the activity record model shared by every updatelens
// package: the seven per-row measures, their derived totals, and the four
// pre-aggregated tables the offline exporter produces.
package dataset

import (
	"time"
)

// Measures holds the seven non-negative counts carried by every activity record.
type Measures struct {
	EnrolInfant int64 `json:"enrol_infant"`
	EnrolChild  int64 `json:"enrol_child"`
	EnrolAdult  int64 `json:"enrol_adult"`
	DemoChild   int64 `json:"demo_child"`
	DemoAdult   int64 `json:"demo_adult"`
	BioChild    int64 `json:"bio_child"`
	BioAdult    int64 `json:"bio_adult"`
}

// TotalDemo is demographic updates across both age bands.
func (m Measures) TotalDemo() int64 { return m.DemoChild + m.DemoAdult }

// TotalBio is biometric updates across both age bands.
func (m Measures) TotalBio() int64 { return m.BioChild + m.BioAdult }

// TotalEnrol is new enrolments across all three age bands.
func (m Measures) TotalEnrol() int64 { return m.EnrolInfant + m.EnrolChild + m.EnrolAdult }

// TotalOps is all update operations (demographic plus biometric).
func (m Measures) TotalOps() int64 { return m.TotalDemo() + m.TotalBio() }

// TotalActivity is update operations plus enrolments.
func (m Measures) TotalActivity() int64 { return m.TotalOps() + m.TotalEnrol() }

// Add returns the field-wise sum of m and o.
func (m Measures) Add(o Measures) Measures {
	return Measures{
		EnrolInfant: m.EnrolInfant + o.EnrolInfant,
		EnrolChild:  m.EnrolChild + o.EnrolChild,
		EnrolAdult:  m.EnrolAdult + o.EnrolAdult,
		DemoChild:   m.DemoChild + o.DemoChild,
		DemoAdult:   m.DemoAdult + o.DemoAdult,
		BioChild:    m.BioChild + o.BioChild,
		BioAdult:    m.BioAdult + o.BioAdult,
	}
}

// Get returns the value of a single measure field.
func (m Measures) Get(f Field) int64 {
	switch f {
	case FieldEnrolInfant:
		return m.EnrolInfant
	case FieldEnrolChild:
		return m.EnrolChild
	case FieldEnrolAdult:
		return m.EnrolAdult
	case FieldDemoChild:
		return m.DemoChild
	case FieldDemoAdult:
		return m.DemoAdult
	case FieldBioChild:
		return m.BioChild
	case FieldBioAdult:
		return m.BioAdult
	}
	return 0
}

// Only returns a copy of m with every field outside fs zeroed.
func (m Measures) Only(fs FieldSet) Measures {
	var out Measures
	for _, f := range fs.Fields() {
		out.set(f, m.Get(f))
	}
	return out
}

func (m *Measures) set(f Field, v int64) {
	switch f {
	case FieldEnrolInfant:
		m.EnrolInfant = v
	case FieldEnrolChild:
		m.EnrolChild = v
	case FieldEnrolAdult:
		m.EnrolAdult = v
	case FieldDemoChild:
		m.DemoChild = v
	case FieldDemoAdult:
		m.DemoAdult = v
	case FieldBioChild:
		m.BioChild = v
	case FieldBioAdult:
		m.BioAdult = v
	}
}

// Totals is the named view of derived totals used in results and renderers.
func (m Measures) Totals() map[string]float64 {
	return map[string]float64{
		"total_demo":     float64(m.TotalDemo()),
		"total_bio":      float64(m.TotalBio()),
		"total_enrol":    float64(m.TotalEnrol()),
		"total_ops":      float64(m.TotalOps()),
		"total_activity": float64(m.TotalActivity()),
	}
}

// Record is one row of an activity table. Which key fields are populated
// depends on the table it came from: Date only on daily rows, Month only on
// monthly rows, Pincode only on raw rows.
type Record struct {
	Date     time.Time `json:"date,omitempty"`
	Month    string    `json:"month,omitempty"` // YYYY-MM
	State    string    `json:"state"`           // canonical form
	District string    `json:"district,omitempty"`
	Pincode  string    `json:"pincode,omitempty"`
	Measures
}

// MonthKey returns the YYYY-MM period of the record, falling back to its date.
func (r Record) MonthKey() string {
	if r.Month != "" {
		return r.Month
	}
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("2006-01")
}

// Kind identifies one of the exported tables.
type Kind string

const (
	KindStateSummary    Kind = "state_summary"
	KindDistrictSummary Kind = "district_summary"
	KindMonthlySummary  Kind = "monthly_summary"
	KindDistrictDaily   Kind = "district_daily"

	// KindActivity is the optional pincode-level table. The exporter drops
	// pincodes from its summaries, so pincode-density metrics need this one.
	KindActivity Kind = "activity"
)

// Kinds lists every table kind in load order.
var Kinds = []Kind{KindStateSummary, KindDistrictSummary, KindMonthlySummary, KindDistrictDaily}

// FileName is the name of the JSON file holding the table.
func (k Kind) FileName() string { return string(k) + ".json" }

// MetadataFile is the optional descriptor written next to the tables.
const MetadataFile = "metadata.json"

// Table is an immutable slice of records plus the set of measure columns
// that were present in the source.
type Table struct {
	Kind    Kind
	Records []Record
	Fields  FieldSet
}

// NewTable wraps in-memory records. Every measure column is treated as present.
func NewTable(kind Kind, records []Record) *Table {
	return &Table{Kind: kind, Records: records, Fields: AllMeasures}
}

// Len returns the number of records, tolerating a nil table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Metadata mirrors metadata.json.
type Metadata struct {
	GeneratedAt string                     `json:"generated_at"`
	Datasets    map[string]DatasetMetadata `json:"datasets"`
	DateRange   struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"date_range"`
	Coverage struct {
		States       int `json:"states"`
		Districts    int `json:"districts"`
		TotalRecords int `json:"total_records"`
	} `json:"coverage"`
}

// DatasetMetadata describes one exported table.
type DatasetMetadata struct {
	Records     int      `json:"records"`
	Columns     []string `json:"columns"`
	Description string   `json:"description"`
}

// Store holds the four tables and the optional metadata descriptor.
// A Store is never mutated after it is built.
type Store struct {
	State    *Table
	District *Table
	Monthly  *Table
	Daily    *Table
	Activity *Table // optional
	Metadata *Metadata
}

// Table returns the table of the given kind, or nil.
func (s *Store) Table(kind Kind) *Table {
	if s == nil {
		return nil
	}
	switch kind {
	case KindStateSummary:
		return s.State
	case KindDistrictSummary:
		return s.District
	case KindMonthlySummary:
		return s.Monthly
	case KindDistrictDaily:
		return s.Daily
	case KindActivity:
		return s.Activity
	}
	return nil
}

// NewStore assembles a Store from tables keyed by kind.
func NewStore(tables map[Kind]*Table, meta *Metadata) *Store {
	return &Store{
		State:    tables[KindStateSummary],
		District: tables[KindDistrictSummary],
		Monthly:  tables[KindMonthlySummary],
		Daily:    tables[KindDistrictDaily],
		Activity: tables[KindActivity],
		Metadata: meta,
	}
}

// Records returns the total record count across all tables.
func (s *Store) Records() int {
	n := s.Table(KindActivity).Len()
	for _, k := range Kinds {
		n += s.Table(k).Len()
	}
	return n
}
