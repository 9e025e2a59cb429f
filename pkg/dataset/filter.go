package dataset

// Filter narrows a table to one state and optionally one district.
// Empty fields match everything.
type Filter struct {
	State    string `json:"state,omitempty"`
	District string `json:"district,omitempty"`
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool { return f.State == "" && f.District == "" }

// Normalize canonicalizes the filter values the same way records are.
func (f Filter) Normalize() Filter {
	return Filter{State: CanonicalState(f.State), District: CanonicalDistrict(f.District)}
}

// Match reports whether r passes the filter. The filter must be normalized.
func (f Filter) Match(r Record) bool {
	if f.State != "" && r.State != f.State {
		return false
	}
	if f.District != "" && r.District != f.District {
		return false
	}
	return true
}

// Apply returns a new table holding only the matching records.
func (f Filter) Apply(t *Table) *Table {
	if t == nil {
		return nil
	}
	nf := f.Normalize()
	if nf.IsZero() {
		return t
	}
	out := &Table{Kind: t.Kind, Fields: t.Fields}
	for _, r := range t.Records {
		if nf.Match(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
