// Package aggregate groups activity records by a key and sums their measures.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/updatelens/updatelens/pkg/dataset"
)

// ErrMissingField is returned when a requested measure column is absent from
// every record of a non-empty table.
var ErrMissingField = errors.New("measure field missing from every record")

// KeyFunc extracts the grouping key from a record.
type KeyFunc func(r dataset.Record) string

// Group is the summed measures and row count for one key.
type Group struct {
	Key  string `json:"key"`
	Rows int    `json:"rows"`
	dataset.Measures
}

// DistrictSep joins state and district in composite keys.
const DistrictSep = " / "

var (
	// All maps every record to a single group.
	All KeyFunc = func(dataset.Record) string { return "all" }
	// ByState groups by canonical state name.
	ByState KeyFunc = func(r dataset.Record) string { return r.State }
	// ByDistrict groups by (state, district).
	ByDistrict KeyFunc = func(r dataset.Record) string { return r.State + DistrictSep + r.District }
	// ByMonth groups by calendar month (YYYY-MM).
	ByMonth KeyFunc = func(r dataset.Record) string { return r.MonthKey() }
	// ByDate groups by day (YYYY-MM-DD).
	ByDate KeyFunc = func(r dataset.Record) string {
		if r.Date.IsZero() {
			return ""
		}
		return r.Date.Format("2006-01-02")
	}
	// ByQuarter groups by calendar quarter (YYYY-Qn).
	ByQuarter KeyFunc = func(r dataset.Record) string { return QuarterOf(r.MonthKey()) }
	// ByPincode groups by pincode.
	ByPincode KeyFunc = func(r dataset.Record) string { return r.Pincode }
)

// QuarterOf converts a YYYY-MM month key to YYYY-Qn.
func QuarterOf(month string) string {
	if len(month) < 7 {
		return ""
	}
	var m int
	if _, err := fmt.Sscanf(month[5:7], "%d", &m); err != nil || m < 1 || m > 12 {
		return ""
	}
	return fmt.Sprintf("%s-Q%d", month[:4], (m-1)/3+1)
}

// GroupSum sums the requested measure fields of every record sharing a key.
// Fields outside the request are left at zero in the output. Records whose
// key is empty are skipped.
func GroupSum(t *dataset.Table, key KeyFunc, fields dataset.FieldSet) (map[string]Group, error) {
	out := make(map[string]Group)
	if t.Len() == 0 {
		return out, nil
	}
	if missing := fields &^ t.Fields; missing != 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, missing)
	}

	for _, r := range t.Records {
		k := key(r)
		if k == "" {
			continue
		}
		g := out[k]
		g.Key = k
		g.Rows++
		g.Measures = g.Measures.Add(r.Measures.Only(fields))
		out[k] = g
	}
	return out, nil
}

// Total sums the requested fields over the whole table.
func Total(t *dataset.Table, fields dataset.FieldSet) (Group, error) {
	groups, err := GroupSum(t, All, fields)
	if err != nil {
		return Group{}, err
	}
	return groups["all"], nil
}

// Distinct counts the distinct non-empty values of attr within each key.
func Distinct(t *dataset.Table, key, attr KeyFunc) map[string]int {
	if t.Len() == 0 {
		return map[string]int{}
	}
	byKey := lo.GroupBy(lo.Filter(t.Records, func(r dataset.Record, _ int) bool {
		return key(r) != "" && attr(r) != ""
	}), func(r dataset.Record) string { return key(r) })

	return lo.MapValues(byKey, func(rs []dataset.Record, _ string) int {
		return len(lo.Uniq(lo.Map(rs, func(r dataset.Record, _ int) string { return attr(r) })))
	})
}

// SortedKeys returns the keys of a group map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
